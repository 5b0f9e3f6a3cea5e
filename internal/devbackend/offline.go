package devbackend

import (
	"fmt"
	"strings"
	"time"
)

// themeEffects are the codes the offline script cycles through per theme.
var themeEffects = map[string][]string{
	"joyful":        {"{FX_FLASH(duration=0.3)}", "{SFX_DING}", "{FX_ZOOM_IN}"},
	"serious":       {"{FX_FADE_BLACK}", "{FX_ZOOM_IN}"},
	"inspirational": {"{FX_SLOW_MO}", "{SFX_APPLAUSE}", "{FX_ZOOM_IN}"},
	"humorous":      {"{FX_SHAKE}", "{SFX_WHOOSH}", "{FX_FLASH(duration=0.2)}"},
	"suspenseful":   {"{SFX_DRUMROLL}", "{FX_FADE_BLACK}", "{FX_SHAKE}"},
}

// OfflineScript builds an effects script without an LLM: a title overlay on
// the first transcript segment and one theme effect per following segment.
// Requests that carry no API key get this instead of a provider call.
func OfflineScript(originalScript, theme string) string {
	codes, ok := themeEffects[theme]
	if !ok {
		codes = themeEffects["joyful"]
	}

	segments := ParseEffects(originalScript)
	if len(segments) == 0 {
		segments = []Effect{
			{Start: 0, End: 3 * time.Second},
			{Start: 3 * time.Second, End: 6 * time.Second},
		}
	}

	lines := make([]string, 0, len(segments))
	for i, seg := range segments {
		span := fmt.Sprintf("[%s - %s]", FormatTimestamp(seg.Start), FormatTimestamp(seg.End))
		if i == 0 {
			title := strings.ToUpper(theme)
			if title == "" {
				title = "WELCOME"
			}
			lines = append(lines, fmt.Sprintf("%s drawtext=text='%s':fontsize=36:fontcolor=white:x=(w-text_w)/2:y=h/4", span, title))
			continue
		}
		lines = append(lines, span+" "+codes[(i-1)%len(codes)])
	}

	return strings.Join(lines, "\n")
}
