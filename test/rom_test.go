package test

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nescore/gones/pkg/cartridge"
	"github.com/nescore/gones/pkg/console"
)

// ROMTestResult represents the result of a ROM test
type ROMTestResult struct {
	TestName     string
	Passed       bool
	ErrorMessage string
	Cycles       uint64
	Duration     time.Duration
}

// loadROMFromFile loads a ROM file and creates a cartridge
func loadROMFromFile(filename string) (*cartridge.Cartridge, error) {
	romPath := filepath.Join("roms", filename)

	// Check if file exists
	if _, err := os.Stat(romPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("ROM file not found: %s", romPath)
	}

	// Read file
	data, err := os.ReadFile(romPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read ROM file: %w", err)
	}

	// Create cartridge
	reader := bytes.NewReader(data)
	cart, err := cartridge.LoadFromReader(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to load cartridge: %w", err)
	}

	return cart, nil
}

// runROMTest runs a ROM test with the given parameters
func runROMTest(t *testing.T, romFile string, maxCycles uint64, expectedResult string) *ROMTestResult {
	result := &ROMTestResult{
		TestName: romFile,
		Passed:   false,
	}

	startTime := time.Now()
	defer func() {
		result.Duration = time.Since(startTime)
	}()

	// Load ROM
	cart, err := loadROMFromFile(romFile)
	if err != nil {
		result.ErrorMessage = err.Error()
		t.Logf("Failed to load ROM %s: %v", romFile, err)
		return result
	}

	// Create NES system
	system := console.New()
	system.LoadCartridge(cart)

	// Reset system
	system.Reset()

	// Run for specified cycles
	for system.Cycles < maxCycles {
		system.Step()

		// Check for infinite loops or hangs
		if system.Cycles%10000 == 0 {
			t.Logf("ROM %s: %d cycles completed", romFile, system.Cycles)
		}
	}

	result.Cycles = system.Cycles

	// For now, if we completed without crashing, consider it a pass
	// Individual ROM tests will have specific pass/fail criteria
	result.Passed = true

	return result
}

// TestROMDirectory tests all ROM files in the roms directory
func TestROMDirectory(t *testing.T) {
	romsDir := "roms"

	// Check if roms directory exists
	if _, err := os.Stat(romsDir); os.IsNotExist(err) {
		t.Skip("Roms directory not found, skipping ROM tests")
		return
	}

	// List ROM files
	files, err := os.ReadDir(romsDir)
	if err != nil {
		t.Fatalf("Failed to read roms directory: %v", err)
	}

	if len(files) == 0 {
		t.Skip("No ROM files found in roms directory")
		return
	}

	for _, file := range files {
		if filepath.Ext(file.Name()) == ".nes" {
			t.Run(file.Name(), func(t *testing.T) {
				result := runROMTest(t, file.Name(), 100000, "")
				if !result.Passed {
					t.Errorf("ROM test failed: %s", result.ErrorMessage)
				}
				t.Logf("ROM %s completed in %d cycles (%v)",
					result.TestName, result.Cycles, result.Duration)
			})
		}
	}
}

// TestNestestROM tests the nestest.nes ROM specifically
func TestNestestROM(t *testing.T) {
	romFile := "nestest.nes"

	// Check if ROM exists
	if _, err := loadROMFromFile(romFile); err != nil {
		t.Skipf("Nestest ROM not found: %v", err)
		return
	}

	result := runROMTest(t, romFile, 1000000, "")

	if !result.Passed {
		t.Errorf("Nestest failed: %s", result.ErrorMessage)
		return
	}

	t.Logf("Nestest completed successfully in %d cycles (%v)",
		result.Cycles, result.Duration)
}

// TestInstrTestROM tests the instr_test-v5 ROM
func TestInstrTestROM(t *testing.T) {
	romFile := "01-basics.nes"

	// Check if ROM exists
	if _, err := loadROMFromFile(romFile); err != nil {
		t.Skipf("Instruction test ROM not found: %v", err)
		return
	}

	result := runROMTest(t, romFile, 2000000, "")

	if !result.Passed {
		t.Errorf("Instruction test failed: %s", result.ErrorMessage)
		return
	}

	t.Logf("Instruction test 01-basics completed successfully in %d cycles (%v)",
		result.Cycles, result.Duration)
}

// TestInstrTest02ImpliedROM tests the 02-implied ROM
func TestInstrTest02ImpliedROM(t *testing.T) {
	romFile := "02-implied.nes"

	if _, err := loadROMFromFile(romFile); err != nil {
		t.Skipf("02-implied ROM not found: %v", err)
		return
	}

	result := runROMTest(t, romFile, 2000000, "")

	if !result.Passed {
		t.Errorf("02-implied test failed: %s", result.ErrorMessage)
		return
	}

	t.Logf("02-implied test completed successfully in %d cycles (%v)",
		result.Cycles, result.Duration)
}

// TestInstrTest03ImmediateROM tests the 03-immediate ROM
func TestInstrTest03ImmediateROM(t *testing.T) {
	romFile := "03-immediate.nes"

	if _, err := loadROMFromFile(romFile); err != nil {
		t.Skipf("03-immediate ROM not found: %v", err)
		return
	}

	result := runROMTest(t, romFile, 2000000, "")

	if !result.Passed {
		t.Errorf("03-immediate test failed: %s", result.ErrorMessage)
		return
	}

	t.Logf("03-immediate test completed successfully in %d cycles (%v)",
		result.Cycles, result.Duration)
}

// TestInstrTest04ZeroPageROM tests the 04-zero_page ROM
func TestInstrTest04ZeroPageROM(t *testing.T) {
	romFile := "04-zero_page.nes"

	if _, err := loadROMFromFile(romFile); err != nil {
		t.Skipf("04-zero_page ROM not found: %v", err)
		return
	}

	result := runROMTest(t, romFile, 2000000, "")

	if !result.Passed {
		t.Errorf("04-zero_page test failed: %s", result.ErrorMessage)
		return
	}

	t.Logf("04-zero_page test completed successfully in %d cycles (%v)",
		result.Cycles, result.Duration)
}

// TestCPUDummyReadsROM tests the cpu_dummy_reads ROM
func TestCPUDummyReadsROM(t *testing.T) {
	romFile := "cpu_dummy_reads.nes"

	// Check if ROM exists
	if _, err := loadROMFromFile(romFile); err != nil {
		t.Skipf("CPU dummy reads ROM not found: %v", err)
		return
	}

	result := runROMTest(t, romFile, 1000000, "")

	if !result.Passed {
		t.Errorf("CPU dummy reads test failed: %s", result.ErrorMessage)
		return
	}

	t.Logf("CPU dummy reads test completed successfully in %d cycles (%v)",
		result.Cycles, result.Duration)
}

// TestPPUSpriteHitROM tests the ppu_sprite_hit ROM
func TestPPUSpriteHitROM(t *testing.T) {
	romFile := "sprite_hit_01_basics.nes"

	// Check if ROM exists
	if _, err := loadROMFromFile(romFile); err != nil {
		t.Skipf("PPU sprite hit ROM not found: %v", err)
		return
	}

	result := runROMTest(t, romFile, 2000000, "")

	if !result.Passed {
		t.Errorf("PPU sprite hit test failed: %s", result.ErrorMessage)
		return
	}

	t.Logf("PPU sprite hit test completed successfully in %d cycles (%v)",
		result.Cycles, result.Duration)
}

// TestMapper1Integration tests Mapper 1 functionality with a custom ROM
func TestMapper1Integration(t *testing.T) {
	// Create a test program that exercises Mapper 1 features
	testProgram := []uint8{
		// Test basic MMC1 functionality
		0xA9, 0x80, // LDA #$80 - Reset MMC1
		0x8D, 0x00, 0x80, // STA $8000

		// Set control register to 16KB PRG mode, 4KB CHR mode
		0xA9, 0x1F, // LDA #$1F (all five bits set)
		0x8D, 0x00, 0x80, // STA $8000 (write bit 0)
		0x4A,             // LSR A
		0x8D, 0x00, 0x80, // STA $8000 (write bit 1)
		0x4A,             // LSR A
		0x8D, 0x00, 0x80, // STA $8000 (write bit 2)
		0x4A,             // LSR A
		0x8D, 0x00, 0x80, // STA $8000 (write bit 3)
		0x4A,             // LSR A
		0x8D, 0x00, 0x80, // STA $8000 (write bit 4)

		// Test PRG bank switching
		0xA9, 0x01, // LDA #$01 (switch to bank 1)
		0x8D, 0x00, 0xE0, // STA $E000 (bit 0)
		0x4A,             // LSR A (now 0)
		0x8D, 0x00, 0xE0, // STA $E000 (bit 1)
		0x8D, 0x00, 0xE0, // STA $E000 (bit 2)
		0x8D, 0x00, 0xE0, // STA $E000 (bit 3)
		0x8D, 0x00, 0xE0, // STA $E000 (bit 4)

		// Simple test to verify we're still executing
		0xA9, 0x42, // LDA #$42
		0x85, 0x00, // STA $00

		// End: jump to $802A (inside the last STA $E000); the test stops there
		0x4C, 0x2A, 0x80, // JMP $802A
	}

	// Create ROM with Mapper 1
	rom := createMapper1TestROM(testProgram)
	reader := bytes.NewReader(rom)
	cart, err := cartridge.LoadFromReader(reader)
	if err != nil {
		t.Fatalf("Failed to load Mapper 1 test ROM: %v", err)
	}

	// Verify it's using Mapper 1
	if cart.Header.Flags6&0xF0 != 0x10 {
		t.Fatalf("Expected Mapper 1, got mapper %d", (cart.Header.Flags6>>4)|(cart.Header.Flags7&0xF0))
	}

	// Create and setup NES system
	system := console.New()
	system.LoadCartridge(cart)
	system.Reset()

	// Run the test program
	maxCycles := uint64(50000)
	for system.Cycles < maxCycles {
		system.Step()

		// Check if the final JMP has been taken
		if system.CPU.PC == 0x802A {
			break
		}

		// Safety check for other infinite loops
		if system.Cycles > 10000 && system.Cycles%1000 == 0 {
			t.Logf("Cycles: %d, PC: %04X", system.Cycles, system.CPU.PC)
		}
	}

	t.Logf("Mapper 1 test completed after %d cycles", system.Cycles)
	t.Logf("Final PC: %04X", system.CPU.PC)
	t.Logf("Test memory location $00: %02X", system.Bus.Read(0x00))

	// Check that we reached the halt condition
	if system.CPU.PC != 0x802A {
		t.Errorf("Program did not reach halt condition, PC = %04X", system.CPU.PC)
	}

	// Check that the test program executed successfully
	if system.Bus.Read(0x00) != 0x42 {
		t.Errorf("Expected test value 0x42 at memory location $00, got %02X", system.Bus.Read(0x00))
	}
}

// createMapper1TestROM creates a test ROM that uses Mapper 1
func createMapper1TestROM(program []uint8) []byte {
	rom := make([]byte, 0)

	// iNES header for Mapper 1
	header := []byte{
		0x4E, 0x45, 0x53, 0x1A, // "NES\x1A"
		0x02,                                           // 2 x 16KB PRG ROM (32KB total)
		0x02,                                           // 2 x 8KB CHR ROM (16KB total)
		0x10,                                           // Flags 6: Mapper 1, horizontal mirroring
		0x00,                                           // Flags 7: Mapper 1
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, // Padding
	}
	rom = append(rom, header...)

	// PRG ROM (32KB total, 2 banks of 16KB each)
	prgROM := make([]byte, 32768)

	// Copy program to start of first bank (0x8000)
	copy(prgROM, program)

	// Put the same program in the second bank for testing
	copy(prgROM[16384:], program)

	// Set interrupt vectors for both banks
	// Bank 0 vectors
	prgROM[0x3FFA] = 0x00 // NMI vector low
	prgROM[0x3FFB] = 0x80 // NMI vector high (0x8000)
	prgROM[0x3FFC] = 0x00 // Reset vector low
	prgROM[0x3FFD] = 0x80 // Reset vector high (0x8000)
	prgROM[0x3FFE] = 0x00 // IRQ vector low
	prgROM[0x3FFF] = 0x80 // IRQ vector high (0x8000)

	// Bank 1 vectors (same as bank 0)
	prgROM[0x7FFA] = 0x00 // NMI vector low
	prgROM[0x7FFB] = 0x80 // NMI vector high (0x8000)
	prgROM[0x7FFC] = 0x00 // Reset vector low
	prgROM[0x7FFD] = 0x80 // Reset vector high (0x8000)
	prgROM[0x7FFE] = 0x00 // IRQ vector low
	prgROM[0x7FFF] = 0x80 // IRQ vector high (0x8000)

	rom = append(rom, prgROM...)

	// CHR ROM (16KB total, 4 banks of 4KB each)
	chrROM := make([]byte, 16384)
	// Fill with test pattern
	for i := 0; i < len(chrROM); i++ {
		chrROM[i] = uint8(i % 256)
	}
	rom = append(rom, chrROM...)

	return rom
}

// BenchmarkROMExecution benchmarks ROM execution performance
func BenchmarkROMExecution(b *testing.B) {
	romFile := "nestest.nes"

	cart, err := loadROMFromFile(romFile)
	if err != nil {
		b.Skipf("ROM not found: %v", err)
		return
	}

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		system := console.New()
		system.LoadCartridge(cart)
		system.Reset()

		// Run for a fixed number of cycles
		targetCycles := uint64(10000)
		for system.Cycles < targetCycles {
			system.Step()
		}
	}
}
