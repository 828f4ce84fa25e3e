package markers

import (
	"testing"
)

func TestParseKind(t *testing.T) {
	tests := []struct {
		input   string
		want    Kind
		wantErr bool
	}{
		{input: "spy", want: Spy},
		{input: "mock", want: Mock},
		{input: "captor", want: Captor},
		{input: "inject", want: Inject},
		{input: "widget", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		kind, err := ParseKind(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseKind(%q): expected error, got %v", tt.input, kind)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseKind(%q): unexpected error: %v", tt.input, err)
			continue
		}
		if kind != tt.want {
			t.Errorf("ParseKind(%q) = %v, want %v", tt.input, kind, tt.want)
		}
	}
}

func TestKindString(t *testing.T) {
	if Spy.String() != "spy" {
		t.Errorf("Spy.String() = %q", Spy.String())
	}
	if Kind(99).String() != "unknown" {
		t.Errorf("Kind(99).String() = %q", Kind(99).String())
	}
}

func TestSet(t *testing.T) {
	s := NewSet(Spy, Inject)

	if !s.Has(Spy) || !s.Has(Inject) {
		t.Error("set should contain spy and inject")
	}
	if s.Has(Mock) {
		t.Error("set should not contain mock")
	}
	if s.IsEmpty() {
		t.Error("set should not be empty")
	}
	if got := s.String(); got != "spy,inject" {
		t.Errorf("String() = %q, want %q", got, "spy,inject")
	}

	empty := NewSet()
	if !empty.IsEmpty() {
		t.Error("empty set should report empty")
	}

	var zero Set
	if zero.Has(Spy) {
		t.Error("zero-value set should contain nothing")
	}
}

func TestParseTag(t *testing.T) {
	parser := NewTagParser()

	tests := []struct {
		name       string
		tag        string
		wantKinds  []Kind
		wantParams map[string]string
		wantErr    bool
	}{
		{
			name:      "single marker",
			tag:       "spy",
			wantKinds: []Kind{Spy},
		},
		{
			name:      "marker pair",
			tag:       "spy,inject",
			wantKinds: []Kind{Spy, Inject},
		},
		{
			name:      "whitespace tolerated",
			tag:       " spy , inject ",
			wantKinds: []Kind{Spy, Inject},
		},
		{
			name:       "marker with name parameter",
			tag:        "spy,name=db",
			wantKinds:  []Kind{Spy},
			wantParams: map[string]string{"name": "db"},
		},
		{
			name:       "quoted parameter value",
			tag:        `spy,name="main db"`,
			wantKinds:  []Kind{Spy},
			wantParams: map[string]string{"name": "main db"},
		},
		{
			name:      "empty tag",
			tag:       "",
			wantKinds: nil,
		},
		{
			name:    "unknown marker",
			tag:     "spyy",
			wantErr: true,
		},
		{
			name:    "duplicate marker",
			tag:     "spy,spy",
			wantErr: true,
		},
		{
			name:    "dangling comma",
			tag:     "spy,",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			parsed, err := parser.ParseTag(tt.tag)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("ParseTag(%q): expected error", tt.tag)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseTag(%q): unexpected error: %v", tt.tag, err)
			}

			for _, kind := range tt.wantKinds {
				if !parsed.Markers.Has(kind) {
					t.Errorf("ParseTag(%q): missing marker %v", tt.tag, kind)
				}
			}
			if got, want := len(parsed.Markers.Kinds()), len(tt.wantKinds); got != want {
				t.Errorf("ParseTag(%q): %d markers, want %d", tt.tag, got, want)
			}
			for key, want := range tt.wantParams {
				if got := parsed.Params[key]; got != want {
					t.Errorf("ParseTag(%q): param %q = %q, want %q", tt.tag, key, got, want)
				}
			}
		})
	}
}
