package models

// RegionCode is one of the fixed set of geographic area identifiers a
// listing can carry. The set is closed: validation happens here and nowhere
// else.
type RegionCode string

const (
	RegionI    RegionCode = "I"
	RegionII   RegionCode = "II"
	RegionIII  RegionCode = "III"
	RegionIV   RegionCode = "IV"
	RegionV    RegionCode = "V"
	RegionRM   RegionCode = "RM"
	RegionVI   RegionCode = "VI"
	RegionVII  RegionCode = "VII"
	RegionVIII RegionCode = "VIII"
	RegionIX   RegionCode = "IX"
	RegionX    RegionCode = "X"
	RegionXI   RegionCode = "XI"
	RegionXII  RegionCode = "XII"
	RegionXIV  RegionCode = "XIV"
	RegionXV   RegionCode = "XV"
	RegionXVI  RegionCode = "XVI"
)

// RegionCodes lists every valid code in display order.
var RegionCodes = []RegionCode{
	RegionI, RegionII, RegionIII, RegionIV, RegionV, RegionRM,
	RegionVI, RegionVII, RegionVIII, RegionIX, RegionX, RegionXI,
	RegionXII, RegionXIV, RegionXV, RegionXVI,
}

var regionSet = func() map[RegionCode]struct{} {
	m := make(map[RegionCode]struct{}, len(RegionCodes))
	for _, c := range RegionCodes {
		m[c] = struct{}{}
	}
	return m
}()

// ValidRegion reports whether s is a member of the region enumeration.
func ValidRegion(s string) bool {
	_, ok := regionSet[RegionCode(s)]
	return ok
}
