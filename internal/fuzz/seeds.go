package fuzztests

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/tools/txtar"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB: ограничение для тестового корпуса
	maxFuzzInput = 1 << 16
)

// fixture is the dialect/generated pair of one dense scenario.
type fixture struct {
	source    []byte
	generated []byte
}

func loadFixtures() []fixture {
	paths, err := filepath.Glob(filepath.Join("..", "dense", "testdata", "*.txtar"))
	if err != nil {
		return nil
	}
	var out []fixture
	for _, path := range paths {
		// #nosec G304 -- path comes from repository testdata glob
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var fx fixture
		for _, f := range txtar.Parse(data).Files {
			switch f.Name {
			case "source":
				fx.source = clampSeed(f.Data)
			case "generated":
				fx.generated = clampSeed(f.Data)
			}
		}
		out = append(out, fx)
	}
	return out
}

// addSourceSeeds seeds single-input harnesses over dialect text.
func addSourceSeeds(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte("msg = \"hi #{name}\" // greet\n"))
	for _, fx := range loadFixtures() {
		f.Add(fx.source)
	}
}

// addGeneratedSeeds seeds single-input harnesses over generated code.
func addGeneratedSeeds(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte("const msg = `hi ${name}`;\n/* c */ x?.y ?? 1e3\n"))
	for _, fx := range loadFixtures() {
		f.Add(fx.generated)
	}
}

// addPairSeeds seeds (source, generated) harnesses.
func addPairSeeds(f *testing.F) {
	f.Add([]byte{}, []byte{})
	for _, fx := range loadFixtures() {
		f.Add(fx.source, fx.generated)
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		return append([]byte(nil), input[:maxFuzzInput]...)
	}
	return append([]byte(nil), input...)
}

// truncateForLog truncates input for logging purposes
func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(input[:maxLen:maxLen], []byte("...")...)
}
