// SPDX-License-Identifier: EPL-2.0

package miniaudio

import (
	"testing"

	"github.com/gen2brain/malgo"

	"github.com/ik5/audmix/sample"
)

func TestFormatMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		format sample.Format
		malgo  malgo.FormatType
	}{
		{name: "u8", format: sample.U8, malgo: malgo.FormatU8},
		{name: "s16", format: sample.S16, malgo: malgo.FormatS16},
		{name: "f32", format: sample.F32, malgo: malgo.FormatF32},
		{name: "unknown", format: sample.FormatUnknown, malgo: malgo.FormatUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ToMalgo(tt.format); got != tt.malgo {
				t.Errorf("ToMalgo(%v) = %v, want %v", tt.format, got, tt.malgo)
			}
			if got := FromMalgo(tt.malgo); got != tt.format {
				t.Errorf("FromMalgo(%v) = %v, want %v", tt.malgo, got, tt.format)
			}
		})
	}
}

func TestFromMalgo_WideFormats(t *testing.T) {
	t.Parallel()

	for _, f := range []malgo.FormatType{malgo.FormatS24, malgo.FormatS32} {
		if got := FromMalgo(f); got != sample.FormatUnknown {
			t.Errorf("FromMalgo(%v) = %v, want unknown", f, got)
		}
	}
}
