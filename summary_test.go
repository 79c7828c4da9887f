package grove

import "testing"

func TestSummarize(t *testing.T) {
	events := []EmotionEvent{
		{Emotion: EmotionFear, Subject: "Deadline"},
		{Emotion: EmotionJoy},
		{Emotion: EmotionJoy, Subject: "Lunch?"},
		{Emotion: EmotionJoy, Subject: "Later subject"},
	}
	s := Summarize(events)
	if s.Total != 4 {
		t.Errorf("Total = %d, want 4", s.Total)
	}
	if s.Predominant != EmotionJoy || s.Intensity != 75 {
		t.Errorf("Predominant = %s (%d%%), want joy (75%%)", s.Predominant, s.Intensity)
	}
	if s.Examples[EmotionJoy] != "Lunch?" {
		t.Errorf("joy example = %q, want first non-empty subject", s.Examples[EmotionJoy])
	}
	if s.Examples[EmotionFear] != "Deadline" {
		t.Errorf("fear example = %q", s.Examples[EmotionFear])
	}
}

func TestSummarizeCountWeights(t *testing.T) {
	events := []EmotionEvent{
		{Emotion: EmotionJoy, Count: 1},
		{Emotion: EmotionTrust, Count: 2},
		{Emotion: EmotionSadness, Count: 0},
	}
	s := Summarize(events)
	if s.Total != 4 {
		t.Errorf("Total = %d, want 4", s.Total)
	}
	if s.Counts[EmotionTrust] != 2 {
		t.Errorf("trust = %d, want 2", s.Counts[EmotionTrust])
	}
	if s.Predominant != EmotionTrust || s.Intensity != 50 {
		t.Errorf("Predominant = %s (%d%%), want trust (50%%)", s.Predominant, s.Intensity)
	}
}

func TestSummarizeTieBreak(t *testing.T) {
	// Ties resolve in canonical order, not input order.
	s := Summarize([]EmotionEvent{{Emotion: EmotionAnger}, {Emotion: EmotionTrust}})
	if s.Predominant != EmotionTrust {
		t.Errorf("Predominant = %s, want trust", s.Predominant)
	}
	if s.Intensity != 50 {
		t.Errorf("Intensity = %d, want 50", s.Intensity)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.Total != 0 || s.Predominant != EmotionNeutral || s.Intensity != 0 {
		t.Errorf("Summarize(nil) = %+v", s)
	}
}
