package schemaplan

import (
	"errors"
	"fmt"
	"testing"

	"github.com/broady/schemaplan/diag"
)

func TestToError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCode
	}{
		{"passthrough", Errorf(CodeDrift, "changed"), CodeDrift},
		{"wrapped", fmt.Errorf("run: %w", Errorf(CodeFailed, "2 diagnostics")), CodeFailed},
		{"internal", fmt.Errorf("resolve: %w", diag.Internalf("inline", "Person", "pregenerated")), CodeInternal},
		{"plain", errors.New("disk full"), CodeUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToError(tt.err); got.Code != tt.want {
				t.Errorf("ToError(%v).Code = %s, want %s", tt.err, got.Code, tt.want)
			}
		})
	}
	if ToError(nil) != nil {
		t.Error("ToError(nil) should be nil")
	}
}

func TestToError_InternalSubject(t *testing.T) {
	e := ToError(diag.Internalf("freeze", "com.example.Person", "import added after freeze"))
	if e.Details["subject"] != "com.example.Person" {
		t.Errorf("details = %v", e.Details)
	}
}

func TestError_WithDetail(t *testing.T) {
	base := Errorf(CodeInvalidConfig, "bad")
	withA := base.WithDetail("a", 1)
	withB := withA.WithDetail("b", 2)
	if base.Details != nil {
		t.Errorf("base mutated: %v", base.Details)
	}
	if len(withA.Details) != 1 || len(withB.Details) != 2 {
		t.Errorf("details = %v, %v", withA.Details, withB.Details)
	}
	if got := withB.Error(); got != "invalid_config: bad" {
		t.Errorf("Error() = %q", got)
	}
}
