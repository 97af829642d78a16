// SPDX-License-Identifier: EPL-2.0

package command

import (
	"github.com/ik5/audmix/playback"
	"github.com/ik5/audmix/track"
)

// Command is a control message applied by the audio goroutine.
type Command interface {
	command()
}

// AddMono loads Track into storage slot Slot, replacing what was there.
type AddMono struct {
	Slot  int
	Track track.Track
}

// AddMonos loads several tracks; invalid slots are skipped.
type AddMonos struct {
	Tracks []AddMono
}

// RemoveMono stops every instance playing from Slot.
type RemoveMono struct {
	Slot int
}

type RemoveMonos struct {
	Slots []int
}

// PlayMonoOnChannels starts the track in Slot on Channels. ID is assigned
// by the Sender.
type PlayMonoOnChannels struct {
	ID       playback.ID
	Slot     int
	Channels []int
	Repeats  uint32
	Volume   float32
}

type PlayMonosOnChannels struct {
	Plays []PlayMonoOnChannels
}

type RemoveMonoFromPlaylist struct {
	ID playback.ID
}

type RemoveMonosFromPlaylist struct {
	IDs []playback.ID
}

type PauseMonoFromPlaylist struct {
	ID playback.ID
}

type PauseMonosFromPlaylist struct {
	IDs []playback.ID
}

type UnpauseMonoFromPlaylist struct {
	ID playback.ID
}

type UnpauseMonosFromPlaylist struct {
	IDs []playback.ID
}

// PauseMonoFromStorage pauses every instance spawned from Slot.
type PauseMonoFromStorage struct {
	Slot int
}

type PauseMonosFromStorage struct {
	Slots []int
}

type UnpauseMonoFromStorage struct {
	Slot int
}

type UnpauseMonosFromStorage struct {
	Slots []int
}

// StopMonoFromStorage retires every instance spawned from Slot.
type StopMonoFromStorage struct {
	Slot int
}

type StopMonosFromStorage struct {
	Slots []int
}

type SetMonoVolume struct {
	ID     playback.ID
	Volume float32
}

// SetMonosVolume applies one Volume to every ID.
type SetMonosVolume struct {
	IDs    []playback.ID
	Volume float32
}

// SetMonosVolumes applies a distinct volume per ID.
type SetMonosVolumes struct {
	Volumes []SetMonoVolume
}

type SetMonoVolumeFromStorage struct {
	Slot   int
	Volume float32
}

type SetMonosVolumeFromStorage struct {
	Slots  []int
	Volume float32
}

type SetMonosVolumesFromStorage struct {
	Volumes []SetMonoVolumeFromStorage
}

// ClearPlaylist retires every instance.
type ClearPlaylist struct{}

// SetGeneralVolume sets the master gain applied after mixing.
type SetGeneralVolume struct {
	Volume float32
}

// Close ends the audio loop deliberately.
type Close struct{}

func (AddMono) command()                    {}
func (AddMonos) command()                   {}
func (RemoveMono) command()                 {}
func (RemoveMonos) command()                {}
func (PlayMonoOnChannels) command()         {}
func (PlayMonosOnChannels) command()        {}
func (RemoveMonoFromPlaylist) command()     {}
func (RemoveMonosFromPlaylist) command()    {}
func (PauseMonoFromPlaylist) command()      {}
func (PauseMonosFromPlaylist) command()     {}
func (UnpauseMonoFromPlaylist) command()    {}
func (UnpauseMonosFromPlaylist) command()   {}
func (PauseMonoFromStorage) command()       {}
func (PauseMonosFromStorage) command()      {}
func (UnpauseMonoFromStorage) command()     {}
func (UnpauseMonosFromStorage) command()    {}
func (StopMonoFromStorage) command()        {}
func (StopMonosFromStorage) command()       {}
func (SetMonoVolume) command()              {}
func (SetMonosVolume) command()             {}
func (SetMonosVolumes) command()            {}
func (SetMonoVolumeFromStorage) command()   {}
func (SetMonosVolumeFromStorage) command()  {}
func (SetMonosVolumesFromStorage) command() {}
func (ClearPlaylist) command()              {}
func (SetGeneralVolume) command()           {}
func (Close) command()                      {}
