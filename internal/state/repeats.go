package state

// This file contains the functions that check if a match position is repeated.

import (
	"encoding/binary"
	"hash/fnv"

	"k8s.io/klog/v2"
)

// HashNode represents the a list (but during exploration it may become a tree) of hash
// of the previous positions in a line of the game, used to check for repeated positions.
type HashNode struct {
	Hash uint64
	Prev *HashNode
}

// PositionHash returns a hash of the position: the occupancy, phase, next player and remaining
// captures. The history of formed mills is not part of it.
//
// Only positions of the movement phase (and its mill removal sub-phase) can repeat, so it returns
// 0 for the other phases.
func (b *Board) PositionHash() uint64 {
	if b.Phase != Movement && b.Phase != MillRemoval {
		return 0
	}
	hasher := fnv.New64a()
	header := [3]uint8{uint8(b.Phase), uint8(b.NextPlayer), uint8(b.RemainingCaptures)}
	if err := binary.Write(hasher, binary.LittleEndian, header); err != nil {
		klog.Fatalf("Failed to write to hasher: %v", err)
	}
	if err := binary.Write(hasher, binary.LittleEndian, b.occupancy); err != nil {
		klog.Fatalf("Failed to write to hasher: %v", err)
	}
	return hasher.Sum64()
}

// CountRepeats returns the number of times the position was seen earlier in the same match.
func (b *Board) CountRepeats() uint8 {
	h := b.Derived.Hash
	if h == 0 {
		return 0
	}
	var repeats uint8
	for hn := b.PreviousBoards; hn != nil; hn = hn.Prev {
		if hn.Hash == h {
			repeats++
		}
	}
	return repeats
}
