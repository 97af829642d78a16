// SPDX-License-Identifier: EPL-2.0

package command

import (
	"slices"

	"github.com/ik5/audmix/playback"
	"github.com/ik5/audmix/track"
)

// Sender is the producing end of the queue. It is safe for concurrent use
// by any number of goroutines. Sends block only while the queue is full
// and never wait for a command to be applied.
type Sender struct {
	q   *queue
	ids *playback.IDSource
}

// Send enqueues cmd.
func (s *Sender) Send(cmd Command) error {
	if s.q.shutdown.Load() {
		return ErrClosed
	}

	select {
	case <-s.q.stopped:
		return ErrStopped
	default:
	}

	select {
	case s.q.ch <- cmd:
		return nil
	case <-s.q.stopped:
		return ErrStopped
	case <-s.q.shut:
		return ErrClosed
	}
}

// Shutdown closes the producing side. The receiver drains what is already
// queued and then reports Disconnected.
func (s *Sender) Shutdown() {
	s.q.shutOnce.Do(func() {
		s.q.shutdown.Store(true)
		close(s.q.shut)
	})
}

// NextID reserves an instance ID without sending anything.
func (s *Sender) NextID() playback.ID { return s.ids.Next() }

// AddMono loads t into slot. The sample slice is handed over to the
// engine and must not be modified afterwards.
func (s *Sender) AddMono(slot int, t track.Track) error {
	return s.Send(AddMono{Slot: slot, Track: t})
}

func (s *Sender) AddMonos(tracks ...AddMono) error {
	return s.Send(AddMonos{Tracks: slices.Clone(tracks)})
}

func (s *Sender) RemoveMono(slot int) error {
	return s.Send(RemoveMono{Slot: slot})
}

func (s *Sender) RemoveMonos(slots ...int) error {
	return s.Send(RemoveMonos{Slots: slices.Clone(slots)})
}

// PlayMonoOnChannels starts slot on channels and returns the ID the new
// instance will have. repeats of 0 loops forever.
func (s *Sender) PlayMonoOnChannels(slot int, channels []int, repeats uint32, volume float32) (playback.ID, error) {
	id := s.ids.Next()
	err := s.Send(PlayMonoOnChannels{
		ID:       id,
		Slot:     slot,
		Channels: slices.Clone(channels),
		Repeats:  repeats,
		Volume:   volume,
	})
	if err != nil {
		return 0, err
	}

	return id, nil
}

// PlayMonosOnChannels starts every play request in one command. The ID
// fields of plays are ignored and replaced with fresh IDs, returned in
// the same order.
func (s *Sender) PlayMonosOnChannels(plays ...PlayMonoOnChannels) ([]playback.ID, error) {
	out := make([]PlayMonoOnChannels, len(plays))
	ids := make([]playback.ID, len(plays))
	for i, p := range plays {
		p.ID = s.ids.Next()
		p.Channels = slices.Clone(p.Channels)
		out[i] = p
		ids[i] = p.ID
	}

	if err := s.Send(PlayMonosOnChannels{Plays: out}); err != nil {
		return nil, err
	}

	return ids, nil
}

func (s *Sender) RemoveMonoFromPlaylist(id playback.ID) error {
	return s.Send(RemoveMonoFromPlaylist{ID: id})
}

func (s *Sender) RemoveMonosFromPlaylist(ids ...playback.ID) error {
	return s.Send(RemoveMonosFromPlaylist{IDs: slices.Clone(ids)})
}

func (s *Sender) PauseMonoFromPlaylist(id playback.ID) error {
	return s.Send(PauseMonoFromPlaylist{ID: id})
}

func (s *Sender) PauseMonosFromPlaylist(ids ...playback.ID) error {
	return s.Send(PauseMonosFromPlaylist{IDs: slices.Clone(ids)})
}

func (s *Sender) UnpauseMonoFromPlaylist(id playback.ID) error {
	return s.Send(UnpauseMonoFromPlaylist{ID: id})
}

func (s *Sender) UnpauseMonosFromPlaylist(ids ...playback.ID) error {
	return s.Send(UnpauseMonosFromPlaylist{IDs: slices.Clone(ids)})
}

func (s *Sender) PauseMonoFromStorage(slot int) error {
	return s.Send(PauseMonoFromStorage{Slot: slot})
}

func (s *Sender) PauseMonosFromStorage(slots ...int) error {
	return s.Send(PauseMonosFromStorage{Slots: slices.Clone(slots)})
}

func (s *Sender) UnpauseMonoFromStorage(slot int) error {
	return s.Send(UnpauseMonoFromStorage{Slot: slot})
}

func (s *Sender) UnpauseMonosFromStorage(slots ...int) error {
	return s.Send(UnpauseMonosFromStorage{Slots: slices.Clone(slots)})
}

func (s *Sender) StopMonoFromStorage(slot int) error {
	return s.Send(StopMonoFromStorage{Slot: slot})
}

func (s *Sender) StopMonosFromStorage(slots ...int) error {
	return s.Send(StopMonosFromStorage{Slots: slices.Clone(slots)})
}

func (s *Sender) SetMonoVolume(id playback.ID, volume float32) error {
	return s.Send(SetMonoVolume{ID: id, Volume: volume})
}

func (s *Sender) SetMonosVolume(volume float32, ids ...playback.ID) error {
	return s.Send(SetMonosVolume{IDs: slices.Clone(ids), Volume: volume})
}

func (s *Sender) SetMonosVolumes(volumes ...SetMonoVolume) error {
	return s.Send(SetMonosVolumes{Volumes: slices.Clone(volumes)})
}

func (s *Sender) SetMonoVolumeFromStorage(slot int, volume float32) error {
	return s.Send(SetMonoVolumeFromStorage{Slot: slot, Volume: volume})
}

func (s *Sender) SetMonosVolumeFromStorage(volume float32, slots ...int) error {
	return s.Send(SetMonosVolumeFromStorage{Slots: slices.Clone(slots), Volume: volume})
}

func (s *Sender) SetMonosVolumesFromStorage(volumes ...SetMonoVolumeFromStorage) error {
	return s.Send(SetMonosVolumesFromStorage{Volumes: slices.Clone(volumes)})
}

func (s *Sender) ClearPlaylist() error {
	return s.Send(ClearPlaylist{})
}

func (s *Sender) SetGeneralVolume(volume float32) error {
	return s.Send(SetGeneralVolume{Volume: volume})
}

// Close asks the audio loop to terminate once it reaches this command.
func (s *Sender) Close() error {
	return s.Send(Close{})
}
