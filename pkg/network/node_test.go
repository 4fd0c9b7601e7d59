package network

import (
	"errors"
	"testing"
)

func mustFlow(t *testing.T, cfg FlowConfig) *Flow {
	t.Helper()
	f, _, err := NewFlow(cfg)
	if err != nil {
		t.Fatalf("NewFlow failed: %v", err)
	}
	return f
}

// TestNewBus verifies bus defaults and kind
func TestNewBus(t *testing.T) {
	b := NewBus("electricity")

	if b.Label() != "electricity" {
		t.Errorf("Label() = %q, want electricity", b.Label())
	}
	if !b.Balanced {
		t.Errorf("Balanced = false, want true by default")
	}
	if b.Kind() != KindBus {
		t.Errorf("Kind() = %v, want KindBus", b.Kind())
	}
	if len(b.Inputs()) != 0 || len(b.Outputs()) != 0 {
		t.Errorf("fresh bus has edges")
	}
}

// TestNewBus_AutoLabel verifies unlabeled nodes get unique labels
func TestNewBus_AutoLabel(t *testing.T) {
	a := NewBus("")
	b := NewBus("")

	if a.Label() == "" || b.Label() == "" {
		t.Fatalf("auto label is empty")
	}
	if a.Label() == b.Label() {
		t.Errorf("auto labels collide: %q", a.Label())
	}
}

// TestNewSink verifies sink wiring and cardinality enforcement
func TestNewSink(t *testing.T) {
	bus := NewBus("heat")
	f := mustFlow(t, FlowConfig{})

	sink, err := NewSink("demand", bus, f)
	if err != nil {
		t.Fatalf("NewSink failed: %v", err)
	}

	if sink.Kind() != KindSink {
		t.Errorf("Kind() = %v, want KindSink", sink.Kind())
	}
	if len(sink.Inputs()) != 1 || len(sink.Outputs()) != 0 {
		t.Fatalf("sink edges = %d in / %d out, want 1/0", len(sink.Inputs()), len(sink.Outputs()))
	}

	edge := sink.Inputs()[0]
	if edge.From != Node(bus) || edge.To != Node(sink) || edge.Flow != f {
		t.Errorf("edge endpoints wrong: %v -> %v", edge.From.Label(), edge.To.Label())
	}

	// The same edge is visible from the bus side.
	if len(bus.Outputs()) != 1 || bus.Outputs()[0] != edge {
		t.Errorf("bus does not share the sink's edge")
	}
}

// TestNewSink_NilEndpoints verifies nil bus/flow are construction failures
func TestNewSink_NilEndpoints(t *testing.T) {
	bus := NewBus("b")
	f := mustFlow(t, FlowConfig{})

	if _, err := NewSink("d", nil, f); !errors.Is(err, ErrNilEndpoint) {
		t.Errorf("nil bus error = %v, want ErrNilEndpoint", err)
	}
	if _, err := NewSink("d", bus, nil); !errors.Is(err, ErrNilFlow) {
		t.Errorf("nil flow error = %v, want ErrNilFlow", err)
	}
}

// TestNewSource verifies source wiring
func TestNewSource(t *testing.T) {
	bus := NewBus("gas")
	f := mustFlow(t, FlowConfig{})

	src, err := NewSource("import", bus, f)
	if err != nil {
		t.Fatalf("NewSource failed: %v", err)
	}

	if src.Kind() != KindSource {
		t.Errorf("Kind() = %v, want KindSource", src.Kind())
	}
	if len(src.Outputs()) != 1 || len(src.Inputs()) != 0 {
		t.Fatalf("source edges = %d in / %d out, want 0/1", len(src.Inputs()), len(src.Outputs()))
	}
	if len(bus.Inputs()) != 1 || bus.Inputs()[0] != src.Outputs()[0] {
		t.Errorf("bus does not share the source's edge")
	}
}

// TestNewSource_NilEndpoints verifies nil bus/flow are construction failures
func TestNewSource_NilEndpoints(t *testing.T) {
	bus := NewBus("b")
	f := mustFlow(t, FlowConfig{})

	if _, err := NewSource("s", nil, f); !errors.Is(err, ErrNilEndpoint) {
		t.Errorf("nil bus error = %v, want ErrNilEndpoint", err)
	}
	if _, err := NewSource("s", bus, nil); !errors.Is(err, ErrNilFlow) {
		t.Errorf("nil flow error = %v, want ErrNilFlow", err)
	}
}

// TestBus_DuplicateFlowsAccumulate verifies duplicate registrations are allowed
func TestBus_DuplicateFlowsAccumulate(t *testing.T) {
	bus := NewBus("el")

	for i := 0; i < 3; i++ {
		if _, err := NewSink("", bus, mustFlow(t, FlowConfig{})); err != nil {
			t.Fatalf("NewSink %d failed: %v", i, err)
		}
	}

	if len(bus.Outputs()) != 3 {
		t.Errorf("bus outputs = %d, want 3 accumulated edges", len(bus.Outputs()))
	}
}

// TestKind_String verifies the kind names the grouping engine keys on
func TestKind_String(t *testing.T) {
	tests := []struct {
		kind Kind
		want string
	}{
		{KindBus, "bus"},
		{KindSink, "sink"},
		{KindSource, "source"},
		{KindLinearTransformer, "linear_transformer"},
		{KindLinearN1Transformer, "linear_n1_transformer"},
		{Kind(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("Kind(%d).String() = %q, want %q", tt.kind, got, tt.want)
		}
	}
}
