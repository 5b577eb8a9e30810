package geometry

import "testing"

func TestApproxEq(t *testing.T) {
	tests := []struct {
		a, b float64
		want bool
	}{
		{1.0, 1.0, true},
		{1.0, 1.0 + Epsilon/2, true},
		{1.0, 1.0 + Epsilon*10, false},
		{-2.5, -2.5, true},
		{0, Epsilon * 2, false},
	}

	for _, tt := range tests {
		if got := ApproxEq(tt.a, tt.b); got != tt.want {
			t.Errorf("ApproxEq(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestApproxLEGE(t *testing.T) {
	if !ApproxLE(1.0+Epsilon/2, 1.0) {
		t.Error("value within epsilon above bound should pass ApproxLE")
	}
	if ApproxLE(1.1, 1.0) {
		t.Error("clearly larger value should fail ApproxLE")
	}
	if !ApproxGE(1.0-Epsilon/2, 1.0) {
		t.Error("value within epsilon below bound should pass ApproxGE")
	}
	if ApproxGE(0.9, 1.0) {
		t.Error("clearly smaller value should fail ApproxGE")
	}
}

func TestPositiveNegative(t *testing.T) {
	if Positive(Epsilon / 2) {
		t.Error("sub-epsilon value should not be Positive")
	}
	if !Positive(0.001) {
		t.Error("0.001 should be Positive")
	}
	if Negative(-Epsilon / 2) {
		t.Error("sub-epsilon value should not be Negative")
	}
	if !Negative(-0.001) {
		t.Error("-0.001 should be Negative")
	}
}

func TestRound4(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{1.23456789, 1.2346},
		{-1.23454, -1.2345},
		{3.5, 3.5},
		{0, 0},
	}

	for _, tt := range tests {
		if got := Round4(tt.in); got != tt.want {
			t.Errorf("Round4(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
