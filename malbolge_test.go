package malbolge

import (
	"testing"

	"github.com/rcornwell/malbolge/internal/machine"
)

// Executing the single halt opcode "v" through the facade reports
// halt_opcode and Halted; this keeps the facade test independent of the
// exact bootstrap wiring.
func TestInterpreterExecuteHalt(t *testing.T) {
	interp := NewInterpreter(DefaultConfig())
	res, err := interp.Execute("v", false)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if res.HaltReason != machine.HaltOpcode {
		t.Errorf("HaltReason got: %v want: halt_opcode", res.HaltReason)
	}
	if !res.Halted {
		t.Errorf("Halted got: false want: true")
	}
}

func TestInterpreterExecuteASCIIRoundTrip(t *testing.T) {
	interp := NewInterpreter(DefaultConfig())
	ascii, err := ExecutionResult{Opcodes: "v"}.EncodeASCII()
	if err != nil {
		t.Fatalf("EncodeASCII: %v", err)
	}
	res, err := interp.ExecuteASCII(ascii, false)
	if err != nil {
		t.Fatalf("ExecuteASCII: %v", err)
	}
	if !res.Halted {
		t.Errorf("Halted got: false want: true")
	}
}

func TestGeneratorFacadeSingleByte(t *testing.T) {
	seed := uint64(1)
	cfg := DefaultGenConfig()
	cfg.RandomSeed = &seed

	gen := NewGenerator()
	res, err := gen.GenerateForString([]byte("A"), cfg)
	if err != nil {
		t.Fatalf("GenerateForString: %v", err)
	}
	if string(res.MachineOutput) != "A" {
		t.Errorf("MachineOutput got: %q want: %q", res.MachineOutput, "A")
	}
	back, err := res.DecodeASCII()
	if err != nil {
		t.Fatalf("DecodeASCII: %v", err)
	}
	if back != res.Opcodes {
		t.Errorf("DecodeASCII round trip got: %q want: %q", back, res.Opcodes)
	}
}
