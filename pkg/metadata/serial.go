package metadata

import (
	"fmt"
	"regexp"
)

const (
	// RoomFallback replaces the room number when a location name has no leading digits.
	RoomFallback = "NA"
	// SequenceWidth is the minimum zero-padded width of the sequence part.
	// Wider sequences are written as-is, so unit 1000 becomes "-1000".
	SequenceWidth = 3
)

var leadingDigits = regexp.MustCompile(`^\d+`)

// SerialNumber is the structured asset identifier
// G{building}/L{floor}/R{room}/{productCode}-{sequence}.
type SerialNumber struct {
	building    string
	floor       string
	room        string
	productCode string
	sequence    int
}

func NewSerialNumber(building, floor, locationName, productCode string, sequence int) SerialNumber {
	return SerialNumber{
		building:    building,
		floor:       floor,
		room:        RoomNumber(locationName),
		productCode: productCode,
		sequence:    sequence,
	}
}

func (s SerialNumber) String() string {
	return fmt.Sprintf("G%s/L%s/R%s/%s-%0*d", s.building, s.floor, s.room, s.productCode, SequenceWidth, s.sequence)
}

func (s SerialNumber) Sequence() int {
	return s.sequence
}

// RoomNumber extracts the leading run of digits from a location name,
// "101 (Lab)" -> "101".
func RoomNumber(locationName string) string {
	if m := leadingDigits.FindString(locationName); m != "" {
		return m
	}
	return RoomFallback
}
