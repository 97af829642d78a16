// SPDX-License-Identifier: EPL-2.0

package engine_test

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/ik5/audmix/command"
	"github.com/ik5/audmix/engine"
	"github.com/ik5/audmix/internal/audiotest"
	"github.com/ik5/audmix/playback"
	"github.com/ik5/audmix/sample"
)

const rate = 8000

func newEngine(slots, channels int) *engine.Engine {
	return engine.New(engine.Options{
		Slots:            slots,
		PlaylistCapacity: 8,
		SampleRate:       rate,
		Channels:         channels,
	})
}

func near(a, b float32) bool { return math.Abs(float64(a-b)) < 1e-6 }

func TestNew_Defaults(t *testing.T) {
	t.Parallel()

	got := engine.New(engine.Options{}).Settings()
	want := engine.Settings{
		GeneralVolume:    1,
		SampleRate:       engine.DefaultSampleRate,
		Channels:         engine.DefaultChannels,
		Slots:            engine.DefaultSlots,
		PlaylistCapacity: engine.DefaultPlaylistCapacity,
	}
	if got != want {
		t.Errorf("Settings() = %+v, want %+v", got, want)
	}
}

func TestEngine_AddMonoOverwriteRetiresInstances(t *testing.T) {
	t.Parallel()

	e := newEngine(4, 1)
	e.Apply(command.AddMono{Slot: 1, Track: audiotest.ConstantTrack(16, rate, 0.5)})
	e.Apply(command.PlayMonoOnChannels{ID: 1, Slot: 1, Channels: []int{0}, Volume: 1})
	e.Apply(command.PlayMonoOnChannels{ID: 2, Slot: 1, Channels: []int{0}, Volume: 1})

	if n := e.Registry().Distribution().Len(1); n != 2 {
		t.Fatalf("distribution holds %d ids, want 2", n)
	}

	e.Apply(command.AddMono{Slot: 1, Track: audiotest.ConstantTrack(4, rate, 0.25)})

	if n := e.Registry().Distribution().Len(1); n != 0 {
		t.Errorf("distribution holds %d ids after overwrite, want 0", n)
	}
	if e.Registry().Len() != 0 {
		t.Errorf("registry holds %d instances after overwrite", e.Registry().Len())
	}
	tr, _ := e.Storage().Get(1)
	if tr.Len() != 4 {
		t.Errorf("slot 1 holds %d samples, want 4", tr.Len())
	}
}

func TestEngine_RemoveMonoKeepsTrack(t *testing.T) {
	t.Parallel()

	e := newEngine(2, 1)
	e.Apply(command.AddMono{Slot: 0, Track: audiotest.ConstantTrack(8, rate, 1)})
	e.Apply(command.PlayMonoOnChannels{ID: 1, Slot: 0, Channels: []int{0}, Volume: 1})

	e.Apply(command.RemoveMono{Slot: 0})

	if _, ok := e.Registry().Status(1); ok {
		t.Error("instance survived RemoveMono")
	}
	if _, ok := e.Storage().Get(0); !ok {
		t.Error("RemoveMono dropped the track data")
	}

	// slot can still be played
	e.Apply(command.PlayMonoOnChannels{ID: 2, Slot: 0, Channels: []int{0}, Volume: 1})
	if got := e.NextFrame()[0]; got != 1 {
		t.Errorf("replay produced %v", got)
	}
}

func TestEngine_PlayRepeatOnceScenario(t *testing.T) {
	t.Parallel()

	const k = 6
	e := newEngine(4, 1)
	e.Apply(command.AddMono{Slot: 0, Track: audiotest.ConstantTrack(k, rate, 0.5)})
	e.Apply(command.PlayMonoOnChannels{ID: 7, Slot: 0, Channels: []int{0}, Repeats: 1, Volume: 1})

	for i := range k {
		if got := e.NextFrame()[0]; got != 0.5 {
			t.Fatalf("frame %d = %v", i, got)
		}
	}

	if got := e.NextFrame()[0]; got != 0 {
		t.Errorf("frame after track end = %v, want silence", got)
	}
	if _, ok := e.Registry().Status(7); ok {
		t.Error("instance still retrievable after finishing")
	}
}

func TestEngine_InvalidTargetsAreNoops(t *testing.T) {
	t.Parallel()

	e := newEngine(2, 1)
	e.Apply(command.AddMono{Slot: 0, Track: audiotest.ConstantTrack(8, rate, 0.5)})
	e.Apply(command.PlayMonoOnChannels{ID: 1, Slot: 0, Channels: []int{0}, Volume: 1})

	noops := []command.Command{
		command.AddMono{Slot: 2, Track: audiotest.ConstantTrack(1, rate, 1)},
		command.AddMono{Slot: -1, Track: audiotest.ConstantTrack(1, rate, 1)},
		command.RemoveMono{Slot: 5},
		command.PlayMonoOnChannels{ID: 2, Slot: 1, Channels: []int{0}, Volume: 1}, // empty slot
		command.PlayMonoOnChannels{ID: 3, Slot: 9, Channels: []int{0}, Volume: 1},
		command.RemoveMonoFromPlaylist{ID: 42},
		command.PauseMonoFromPlaylist{ID: 42},
		command.UnpauseMonoFromPlaylist{ID: 42},
		command.SetMonoVolume{ID: 42, Volume: 9},
		command.PauseMonoFromStorage{Slot: 1},
		command.StopMonoFromStorage{Slot: 8},
		command.SetMonoVolumeFromStorage{Slot: -3, Volume: 9},
	}
	for _, c := range noops {
		if !e.Apply(c) {
			t.Fatalf("Apply(%T) returned false", c)
		}
	}

	if e.Registry().Len() != 1 {
		t.Fatalf("registry holds %d instances, want 1", e.Registry().Len())
	}
	if got := e.NextFrame()[0]; got != 0.5 {
		t.Errorf("surviving instance produced %v, want 0.5", got)
	}
}

func TestEngine_BulkCommandsSkipInvalidElements(t *testing.T) {
	t.Parallel()

	e := newEngine(3, 1)
	e.Apply(command.AddMonos{Tracks: []command.AddMono{
		{Slot: 0, Track: audiotest.ConstantTrack(8, rate, 0.25)},
		{Slot: 7, Track: audiotest.ConstantTrack(8, rate, 1)},
		{Slot: 2, Track: audiotest.ConstantTrack(8, rate, 0.5)},
	}})

	if got := e.Storage().Loaded(); len(got) != 2 {
		t.Fatalf("Loaded() = %v, want slots 0 and 2", got)
	}

	e.Apply(command.PlayMonosOnChannels{Plays: []command.PlayMonoOnChannels{
		{ID: 1, Slot: 0, Channels: []int{0}, Volume: 1},
		{ID: 2, Slot: 1, Channels: []int{0}, Volume: 1},
		{ID: 3, Slot: 2, Channels: []int{0}, Volume: 1},
	}})
	if e.Registry().Len() != 2 {
		t.Fatalf("registry holds %d instances, want 2", e.Registry().Len())
	}

	e.Apply(command.SetMonosVolumes{Volumes: []command.SetMonoVolume{
		{ID: 1, Volume: 0.5},
		{ID: 99, Volume: 0},
		{ID: 3, Volume: 0.25},
	}})
	if got := e.NextFrame()[0]; !near(got, 0.25*0.5+0.5*0.25) {
		t.Errorf("mixed = %v, want 0.25", got)
	}

	e.Apply(command.PauseMonosFromPlaylist{IDs: []playback.ID{1, 99}})
	if got := e.NextFrame()[0]; !near(got, 0.125) {
		t.Errorf("mixed after pause = %v, want 0.125", got)
	}
	e.Apply(command.UnpauseMonosFromStorage{Slots: []int{0, -1}})
	if st, _ := e.Registry().Status(1); st != playback.Playing {
		t.Errorf("Status(1) = %v, want playing", st)
	}

	e.Apply(command.StopMonosFromStorage{Slots: []int{5, 2}})
	if _, ok := e.Registry().Status(3); ok {
		t.Error("instance 3 survived StopMonosFromStorage")
	}
	e.Apply(command.RemoveMonosFromPlaylist{IDs: []playback.ID{1, 1}})
	if e.Registry().Len() != 0 {
		t.Errorf("registry holds %d instances", e.Registry().Len())
	}
}

func TestEngine_SetMonoVolumeFromStorage(t *testing.T) {
	t.Parallel()

	e := newEngine(2, 1)
	e.Apply(command.AddMono{Slot: 0, Track: audiotest.ConstantTrack(8, rate, 1)})
	e.Apply(command.AddMono{Slot: 1, Track: audiotest.ConstantTrack(8, rate, 1)})
	e.Apply(command.PlayMonoOnChannels{ID: 1, Slot: 0, Channels: []int{0}, Volume: 1})
	e.Apply(command.PlayMonoOnChannels{ID: 2, Slot: 0, Channels: []int{0}, Volume: 1})
	e.Apply(command.PlayMonoOnChannels{ID: 3, Slot: 1, Channels: []int{0}, Volume: 1})

	e.Apply(command.SetMonoVolumeFromStorage{Slot: 0, Volume: 0.2})

	for _, id := range []playback.ID{1, 2} {
		if v, _ := e.Registry().Volume(id); v != 0.2 {
			t.Errorf("Volume(%d) = %v, want 0.2", id, v)
		}
	}
	if v, _ := e.Registry().Volume(3); v != 1 {
		t.Errorf("Volume(3) = %v, want 1", v)
	}

	e.Apply(command.SetMonosVolumeFromStorage{Slots: []int{0, 1}, Volume: 0.4})
	e.Apply(command.SetMonosVolumesFromStorage{Volumes: []command.SetMonoVolumeFromStorage{{Slot: 1, Volume: 0.1}}})
	e.Apply(command.SetMonosVolume{IDs: []playback.ID{2}, Volume: 0.3})

	want := map[playback.ID]float32{1: 0.4, 2: 0.3, 3: 0.1}
	for id, v := range want {
		if got, _ := e.Registry().Volume(id); got != v {
			t.Errorf("Volume(%d) = %v, want %v", id, got, v)
		}
	}
}

func TestEngine_ClearPlaylistThenSilence(t *testing.T) {
	t.Parallel()

	e := newEngine(2, 2)
	e.Apply(command.AddMono{Slot: 0, Track: audiotest.ConstantTrack(8, rate, 1)})
	e.Apply(command.PlayMonoOnChannels{ID: 1, Slot: 0, Channels: []int{0, 1}, Volume: 1})
	e.Apply(command.ClearPlaylist{})

	buf := make([]int16, 2*32)
	engine.Fill(e, buf)
	for i, v := range buf {
		if v != 0 {
			t.Fatalf("sample %d = %d, want silence", i, v)
		}
	}
}

func TestEngine_CloseStopsApplying(t *testing.T) {
	t.Parallel()

	e := newEngine(1, 1)
	if e.Apply(command.Close{}) {
		t.Error("Apply(Close) returned true")
	}

	tx, rx := command.New(8)
	tx.SetGeneralVolume(0.5)
	tx.Close()
	tx.SetGeneralVolume(0.1)

	if got := e.Drain(rx); got != engine.Closed {
		t.Fatalf("Drain() = %v, want closed", got)
	}
	if v := e.Settings().GeneralVolume; v != 0.5 {
		t.Errorf("GeneralVolume = %v, want 0.5", v)
	}
	if rx.Pending() != 1 {
		t.Errorf("Pending() = %d, want the command after Close left queued", rx.Pending())
	}
}

func TestEngine_DrainDisconnected(t *testing.T) {
	t.Parallel()

	e := newEngine(1, 1)
	tx, rx := command.New(8)

	if got := e.Drain(rx); got != engine.Running {
		t.Fatalf("Drain() on empty queue = %v", got)
	}

	tx.SetGeneralVolume(0.25)
	tx.Shutdown()

	if got := e.Drain(rx); got != engine.Disconnected {
		t.Fatalf("Drain() = %v, want disconnected", got)
	}
	if v := e.Settings().GeneralVolume; v != 0.25 {
		t.Errorf("queued command was not applied before disconnect: volume %v", v)
	}
}

func TestEngine_GeneralVolumeScalesOutput(t *testing.T) {
	t.Parallel()

	e := newEngine(1, 1)
	e.Apply(command.AddMono{Slot: 0, Track: audiotest.ConstantTrack(8, rate, 0.5)})
	e.Apply(command.PlayMonoOnChannels{ID: 1, Slot: 0, Channels: []int{0}, Volume: 1})
	e.Apply(command.SetGeneralVolume{Volume: 0.5})

	buf := make([]float32, 2)
	engine.Fill(e, buf)
	if buf[0] != 0.25 || buf[1] != 0.25 {
		t.Errorf("Fill() = %v, want [0.25 0.25]", buf)
	}
}

func TestFill_Formats(t *testing.T) {
	t.Parallel()

	setup := func() *engine.Engine {
		e := newEngine(1, 2)
		e.Apply(command.AddMono{Slot: 0, Track: audiotest.ConstantTrack(8, rate, 1)})
		e.Apply(command.PlayMonoOnChannels{ID: 1, Slot: 0, Channels: []int{1}, Volume: 1})
		return e
	}

	t.Run("int16", func(t *testing.T) {
		t.Parallel()

		buf := make([]int16, 5)
		engine.Fill(setup(), buf)
		want := []int16{0, 32767, 0, 32767, 0}
		for i := range want {
			if buf[i] != want[i] {
				t.Fatalf("Fill[int16] = %v, want %v", buf, want)
			}
		}
	})

	t.Run("uint8", func(t *testing.T) {
		t.Parallel()

		buf := make([]uint8, 4)
		engine.Fill(setup(), buf)
		want := []uint8{128, 255, 128, 255}
		for i := range want {
			if buf[i] != want[i] {
				t.Fatalf("Fill[uint8] = %v, want %v", buf, want)
			}
		}
	})

	t.Run("float32", func(t *testing.T) {
		t.Parallel()

		buf := make([]float32, 3)
		engine.Fill(setup(), buf)
		if buf[0] != 0 || buf[1] != 1 || buf[2] != 0 {
			t.Fatalf("Fill[float32] = %v", buf)
		}
	})
}

func TestEngine_FillBytes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		format sample.Format
		check  func(t *testing.T, buf []byte)
	}{
		{
			name:   "s16",
			format: sample.S16,
			check: func(t *testing.T, buf []byte) {
				if got := int16(binary.LittleEndian.Uint16(buf[2:])); got != 16383 {
					t.Errorf("right channel = %d, want 16383", got)
				}
			},
		},
		{
			name:   "u8",
			format: sample.U8,
			check: func(t *testing.T, buf []byte) {
				if buf[0] != 128 || buf[1] != 191 {
					t.Errorf("frame = %v, want [128 191]", buf[:2])
				}
			},
		},
		{
			name:   "f32",
			format: sample.F32,
			check: func(t *testing.T, buf []byte) {
				if got := math.Float32frombits(binary.LittleEndian.Uint32(buf[4:])); got != 0.5 {
					t.Errorf("right channel = %v, want 0.5", got)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := newEngine(1, 2)
			e.Apply(command.AddMono{Slot: 0, Track: audiotest.ConstantTrack(8, rate, 0.5)})
			e.Apply(command.PlayMonoOnChannels{ID: 1, Slot: 0, Channels: []int{1}, Volume: 1})

			// one frame plus a partial one
			buf := make([]byte, 2*tt.format.Size()*2-1)
			e.FillBytes(buf, tt.format)
			tt.check(t, buf)

			if c, _ := e.Registry().Cursor(1); c != 1 {
				t.Errorf("cursor = %v, want exactly one frame mixed", c)
			}
		})
	}
}

func TestEngine_ProcessAppliesReconfigure(t *testing.T) {
	t.Parallel()

	e := newEngine(1, 2)
	_, rx := command.New(1)

	e.RequestReconfigure(16000, 1)
	if e.Settings().SampleRate != rate {
		t.Fatal("reconfiguration applied before the callback ran")
	}

	buf := make([]byte, 8)
	if res := e.Process(rx, buf, sample.S16); res != engine.Running {
		t.Fatalf("Process() = %v", res)
	}

	s := e.Settings()
	if s.SampleRate != 16000 || s.Channels != 1 {
		t.Errorf("Settings() = %+v, want 16000 Hz mono", s)
	}
	if e.ApplyPending() {
		t.Error("reconfiguration applied twice")
	}
}

func TestEngine_ProcessSilenceOnClose(t *testing.T) {
	t.Parallel()

	e := newEngine(1, 1)
	e.Apply(command.AddMono{Slot: 0, Track: audiotest.ConstantTrack(8, rate, 1)})
	e.Apply(command.PlayMonoOnChannels{ID: 1, Slot: 0, Channels: []int{0}, Volume: 1})

	tx, rx := command.New(2)
	tx.Close()

	buf := []byte{9, 9, 9, 9}
	if res := e.Process(rx, buf, sample.U8); res != engine.Closed {
		t.Fatalf("Process() = %v, want closed", res)
	}
	for i, b := range buf {
		if b != 128 {
			t.Fatalf("byte %d = %d, want u8 silence", i, b)
		}
	}
}

// Cannot use t.Parallel() with testing.AllocsPerRun
func TestEngine_FillBytesDoesNotAllocate(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping allocation test in short mode")
	}

	e := newEngine(2, 2)
	e.Apply(command.AddMono{Slot: 0, Track: audiotest.ConstantTrack(8192, rate, 0.5)})
	e.Apply(command.PlayMonoOnChannels{ID: 1, Slot: 0, Channels: []int{0, 1}, Volume: 1})

	tests := []struct {
		name   string
		format sample.Format
	}{
		{name: "s16", format: sample.S16},
		{name: "u8", format: sample.U8},
		{name: "f32", format: sample.F32},
	}

	for _, tt := range tests {
		buf := make([]byte, 64*2*tt.format.Size())
		allocs := testing.AllocsPerRun(100, func() {
			e.FillBytes(buf, tt.format)
		})
		if allocs != 0 {
			t.Errorf("%s: FillBytes allocated %v times per run, want 0", tt.name, allocs)
		}
	}
}
