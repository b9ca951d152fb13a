package job

import "testing"

func TestPercent(t *testing.T) {
	tests := []struct {
		name                     string
		total, processed, errors int
		want                     int
	}{
		{"zero total", 0, 0, 0, 0},
		{"untouched", 10, 0, 0, 0},
		{"halfway", 10, 5, 0, 50},
		{"errors count as done", 10, 4, 1, 50},
		{"complete", 10, 9, 1, 100},
		{"rounds down", 3, 1, 0, 33},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			j := Job{Total: tt.total, Processed: tt.processed, Errors: tt.errors}
			if got := j.Percent(); got != tt.want {
				t.Errorf("Percent() = %d, want %d", got, tt.want)
			}
		})
	}
}
