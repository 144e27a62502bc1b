package rtvi

import (
	"sync"

	"github.com/rusenback/botmon/internal/model"
)

// trackRegistry follows track-started/track-stopped so Tracks can answer
// without asking the server
type trackRegistry struct {
	mu        sync.RWMutex
	enableMic bool
	enableCam bool
	connected bool
	local     model.MediaTracks
	bot       *model.MediaTracks
}

func newTrackRegistry(enableMic, enableCam bool) *trackRegistry {
	return &trackRegistry{enableMic: enableMic, enableCam: enableCam}
}

// setConnected publishes or withdraws the configured local tracks
func (r *trackRegistry) setConnected(connected bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.connected = connected
	r.local = model.MediaTracks{}
	if !connected {
		r.bot = nil
		return
	}
	if r.enableMic {
		r.local.Audio = &model.Track{ID: "local-audio", Kind: "audio"}
	}
	if r.enableCam {
		r.local.Video = &model.Track{ID: "local-video", Kind: "video"}
	}
}

func (r *trackRegistry) started(ev model.TrackEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	track := ev.Track
	side := r.sideFor(ev.Participant, true)
	switch track.Kind {
	case "audio":
		side.Audio = &track
	case "video":
		side.Video = &track
	}
}

func (r *trackRegistry) stopped(ev model.TrackEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	side := r.sideFor(ev.Participant, false)
	if side == nil {
		return
	}
	switch ev.Track.Kind {
	case "audio":
		if matches(side.Audio, ev.Track) {
			side.Audio = nil
		}
	case "video":
		if matches(side.Video, ev.Track) {
			side.Video = nil
		}
	}
}

// must be called with mu held
func (r *trackRegistry) sideFor(p *model.Participant, create bool) *model.MediaTracks {
	if p != nil && p.Local {
		return &r.local
	}
	if r.bot == nil && create {
		r.bot = &model.MediaTracks{}
	}
	return r.bot
}

// an empty id on the stop event means "whatever is there"
func matches(cur *model.Track, t model.Track) bool {
	return cur != nil && (t.ID == "" || cur.ID == t.ID)
}

func (r *trackRegistry) snapshot() model.Tracks {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := model.Tracks{Local: copyTracks(r.local)}
	if r.bot != nil {
		b := copyTracks(*r.bot)
		out.Bot = &b
	}
	return out
}

func copyTracks(m model.MediaTracks) model.MediaTracks {
	var out model.MediaTracks
	if m.Audio != nil {
		a := *m.Audio
		out.Audio = &a
	}
	if m.Video != nil {
		v := *m.Video
		out.Video = &v
	}
	return out
}
