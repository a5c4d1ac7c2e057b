package mapper

// Shared ROM fixtures for the mapper test files below. Each is filled with
// an address-derived byte pattern (low 8 bits of the index) so a test can
// assert on exact values without hand-maintaining a separate expectation
// table, and each carries a reset vector pointing at $8000.
var (
	testPRGROM16KB = newPatternROM(16 * 1024)
	testPRGROM32KB = newPatternROM(32 * 1024)
	testCHRROM8KB  = newPatternROM(8 * 1024)
	testCHRROM32KB = newPatternROM(32 * 1024)
)

func newPatternROM(size int) []uint8 {
	rom := make([]uint8, size)
	for i := range rom {
		rom[i] = uint8(i & 0xFF)
	}
	if size >= 4 {
		rom[size-4] = 0x00 // reset vector low
		rom[size-3] = 0x80 // reset vector high ($8000)
	}
	return rom
}
