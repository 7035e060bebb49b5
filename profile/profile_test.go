package profile

import "testing"

func TestMake(t *testing.T) {
	c := Make(WithMode("cpu"), WithPath("/tmp/p"), WithQuiet(true), nil)

	want := Config{Mode: "cpu", Path: "/tmp/p", Quiet: true}
	if c != want {
		t.Errorf("Make() = %+v, want %+v", c, want)
	}
}

func TestConfig_Start_Disabled(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"empty mode", Make()},
		{"unknown mode", Make(WithMode("bogus"), WithPath(t.TempDir()))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stop := tt.cfg.Start()
			if _, ok := stop.(ignore); !ok {
				t.Errorf("Start() = %T, want no-op", stop)
			}

			stop.Stop()
		})
	}
}
