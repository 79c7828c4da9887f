package grove

import "math"

// Summary aggregates a batch of events for the side panel.
type Summary struct {
	Total       int
	Counts      map[Emotion]int
	Predominant Emotion
	// Intensity is the predominant emotion's share of Total, as a rounded
	// percentage.
	Intensity int
	// Examples holds the first non-empty subject seen per emotion.
	Examples map[Emotion]string
}

// Summarize tallies events by emotion, weighting merged records by Count.
// Ties for the predominant emotion resolve in Emotions order. An empty batch
// yields EmotionNeutral with zero intensity.
func Summarize(events []EmotionEvent) Summary {
	s := Summary{
		Counts:      make(map[Emotion]int),
		Examples:    make(map[Emotion]string),
		Predominant: EmotionNeutral,
	}
	for i := range events {
		ev := &events[i]
		w := ev.weight()
		s.Counts[ev.Emotion] += w
		s.Total += w
		if _, ok := s.Examples[ev.Emotion]; !ok && ev.Subject != "" {
			s.Examples[ev.Emotion] = ev.Subject
		}
	}
	if s.Total == 0 {
		return s
	}
	best := -1
	for _, e := range Emotions {
		if c := s.Counts[e]; c > best {
			best = c
			s.Predominant = e
		}
	}
	s.Intensity = int(math.Round(float64(best) / float64(s.Total) * 100))
	return s
}
