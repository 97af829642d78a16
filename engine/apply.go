// SPDX-License-Identifier: EPL-2.0

package engine

import (
	"github.com/ik5/audmix/command"
	"github.com/ik5/audmix/track"
)

// Apply executes one command. It returns false only for command.Close.
// Invalid slots and unknown instance IDs are ignored element by element,
// so bulk commands never fail as a whole.
func (e *Engine) Apply(cmd command.Command) bool {
	r := e.registry

	switch c := cmd.(type) {
	case command.AddMono:
		e.addMono(c.Slot, c.Track)
	case command.AddMonos:
		for _, m := range c.Tracks {
			e.addMono(m.Slot, m.Track)
		}
	case command.RemoveMono:
		r.StopSlot(c.Slot)
	case command.RemoveMonos:
		for _, slot := range c.Slots {
			r.StopSlot(slot)
		}

	case command.PlayMonoOnChannels:
		e.play(c)
	case command.PlayMonosOnChannels:
		for _, p := range c.Plays {
			e.play(p)
		}

	case command.RemoveMonoFromPlaylist:
		r.Remove(c.ID)
	case command.RemoveMonosFromPlaylist:
		for _, id := range c.IDs {
			r.Remove(id)
		}
	case command.PauseMonoFromPlaylist:
		r.Pause(c.ID)
	case command.PauseMonosFromPlaylist:
		for _, id := range c.IDs {
			r.Pause(id)
		}
	case command.UnpauseMonoFromPlaylist:
		r.Unpause(c.ID)
	case command.UnpauseMonosFromPlaylist:
		for _, id := range c.IDs {
			r.Unpause(id)
		}

	case command.PauseMonoFromStorage:
		r.PauseSlot(c.Slot)
	case command.PauseMonosFromStorage:
		for _, slot := range c.Slots {
			r.PauseSlot(slot)
		}
	case command.UnpauseMonoFromStorage:
		r.UnpauseSlot(c.Slot)
	case command.UnpauseMonosFromStorage:
		for _, slot := range c.Slots {
			r.UnpauseSlot(slot)
		}
	case command.StopMonoFromStorage:
		r.StopSlot(c.Slot)
	case command.StopMonosFromStorage:
		for _, slot := range c.Slots {
			r.StopSlot(slot)
		}

	case command.SetMonoVolume:
		r.SetVolume(c.ID, c.Volume)
	case command.SetMonosVolume:
		for _, id := range c.IDs {
			r.SetVolume(id, c.Volume)
		}
	case command.SetMonosVolumes:
		for _, v := range c.Volumes {
			r.SetVolume(v.ID, v.Volume)
		}
	case command.SetMonoVolumeFromStorage:
		r.SetSlotVolume(c.Slot, c.Volume)
	case command.SetMonosVolumeFromStorage:
		for _, slot := range c.Slots {
			r.SetSlotVolume(slot, c.Volume)
		}
	case command.SetMonosVolumesFromStorage:
		for _, v := range c.Volumes {
			r.SetSlotVolume(v.Slot, v.Volume)
		}

	case command.ClearPlaylist:
		r.Clear()
	case command.SetGeneralVolume:
		e.volume = c.Volume
	case command.Close:
		return false
	}

	return true
}

// addMono retires every instance reading slot before replacing its track,
// leaving the slot's distribution entry empty.
func (e *Engine) addMono(slot int, t track.Track) {
	if !e.storage.InRange(slot) {
		return
	}

	e.registry.StopSlot(slot)
	e.storage.Set(slot, t)
}

func (e *Engine) play(p command.PlayMonoOnChannels) {
	t, ok := e.storage.Get(p.Slot)
	if !ok {
		return
	}

	e.registry.Add(p.ID, p.Slot, t, p.Channels, p.Repeats, p.Volume)
}
