// SPDX-License-Identifier: EPL-2.0

package playback

import "slices"

// Distribution maps every storage slot to the ordered list of live
// instance IDs spawned from it.
type Distribution struct {
	slots [][]ID
}

// NewDistribution returns an empty table for the given number of slots.
func NewDistribution(slots int) *Distribution {
	if slots < 0 {
		slots = 0
	}

	return &Distribution{slots: make([][]ID, slots)}
}

// Reserve gives every slot room for perSlot IDs from one shared backing
// array, so Record does not allocate until a slot outgrows it. Recorded
// IDs are kept.
func (d *Distribution) Reserve(perSlot int) {
	if perSlot < 1 || len(d.slots) == 0 {
		return
	}

	backing := make([]ID, len(d.slots)*perSlot)
	for i, ids := range d.slots {
		lo := i * perSlot
		slot := backing[lo : lo : lo+perSlot]
		d.slots[i] = append(slot, ids...)
	}
}

// Slots returns the number of slots in the table.
func (d *Distribution) Slots() int { return len(d.slots) }

// Record appends id to slot. It returns false for an out-of-range slot.
func (d *Distribution) Record(slot int, id ID) bool {
	if slot < 0 || slot >= len(d.slots) {
		return false
	}

	d.slots[slot] = append(d.slots[slot], id)

	return true
}

// Forget removes id from slot, keeping the order of the remaining IDs.
func (d *Distribution) Forget(slot int, id ID) {
	if slot < 0 || slot >= len(d.slots) {
		return
	}

	ids := d.slots[slot]
	if i := slices.Index(ids, id); i >= 0 {
		d.slots[slot] = slices.Delete(ids, i, i+1)
	}
}

// IDs returns the live IDs recorded for slot. The returned slice is owned
// by the table and is only valid until the next mutation.
func (d *Distribution) IDs(slot int) []ID {
	if slot < 0 || slot >= len(d.slots) {
		return nil
	}

	return d.slots[slot]
}

// Len returns the number of IDs recorded for slot.
func (d *Distribution) Len(slot int) int {
	return len(d.IDs(slot))
}

// Reset empties every slot, keeping the allocated capacity.
func (d *Distribution) Reset() {
	for i := range d.slots {
		d.slots[i] = d.slots[i][:0]
	}
}
