package panel

import "github.com/rusenback/botmon/internal/model"

type presence struct {
	Audio bool `json:"audio"`
	Video bool `json:"video"`
}

type trackSummary struct {
	Local presence `json:"local"`
	Bot   presence `json:"bot"`
}

func summarize(t model.Tracks) trackSummary {
	s := trackSummary{
		Local: presence{
			Audio: t.Local.Audio != nil,
			Video: t.Local.Video != nil,
		},
	}
	if t.Bot != nil {
		s.Bot = presence{
			Audio: t.Bot.Audio != nil,
			Video: t.Bot.Video != nil,
		}
	}
	return s
}
