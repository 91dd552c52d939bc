package bench

import "testing"

// TestEnvStability_Evaluate_S7 is spec scenario S7: the integer stability
// predicate of §4.4, end_freq*100 >= start_freq*95 && throttle == 0.
func TestEnvStability_Evaluate_S7(t *testing.T) {
	tests := []struct {
		name  string
		start EnvSnapshot
		end   EnvSnapshot
		want  bool
	}{
		{
			name:  "S7a: 3GHz dropping to 2.8GHz is unstable",
			start: EnvSnapshot{FrequencyHz: 3_000_000_000},
			end:   EnvSnapshot{FrequencyHz: 2_800_000_000},
			want:  false,
		},
		{
			name:  "S7b: frequency held steady at 3GHz, no throttle, is stable",
			start: EnvSnapshot{FrequencyHz: 3_000_000_000},
			end:   EnvSnapshot{FrequencyHz: 3_000_000_000},
			want:  true,
		},
		{
			name:  "throttle events alone make an otherwise-stable run unstable",
			start: EnvSnapshot{FrequencyHz: 3_000_000_000},
			end:   EnvSnapshot{FrequencyHz: 3_000_000_000, ThrottleEvents: 1},
			want:  false,
		},
		{
			name:  "exactly at the 95% floor is still stable",
			start: EnvSnapshot{FrequencyHz: 100},
			end:   EnvSnapshot{FrequencyHz: 95},
			want:  true,
		},
		{
			name:  "one below the 95% floor is unstable",
			start: EnvSnapshot{FrequencyHz: 100},
			end:   EnvSnapshot{FrequencyHz: 94},
			want:  false,
		},
		{
			name:  "start_freq == 0 (no data) assumes stable by graceful degradation",
			start: EnvSnapshot{FrequencyHz: 0},
			end:   EnvSnapshot{FrequencyHz: 0, ThrottleEvents: 5},
			want:  true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stability := EnvStability{Start: tt.start, End: tt.end}
			if got := stability.evaluate(); got != tt.want {
				t.Errorf("evaluate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResult_IsValid(t *testing.T) {
	r := &Result{}
	if !r.IsValid() {
		t.Error("zero-value Result with no faults should be valid")
	}

	r.Faults = r.Faults.Set(FaultThermalDrift)
	if !r.IsValid() {
		t.Error("thermal_drift is a warning, not a hard fault: result should still be valid")
	}

	r.Faults = r.Faults.Set(FaultTimerError)
	if r.IsValid() {
		t.Error("a hard fault must invalidate the result")
	}

	r2 := &Result{VerificationFailures: 1}
	if r2.IsValid() {
		t.Error("verification_failures > 0 must invalidate the result even with no fault set")
	}
}
