package devbackend

import (
	"fmt"
	"sort"
	"strings"
)

// visualEffects and soundEffects are the codes the script may reference.
var (
	visualEffects = map[string]string{
		"FLASH":      "brief white flash, optional duration in seconds",
		"ZOOM_IN":    "slow push towards the center of the frame",
		"SHAKE":      "camera shake for impact moments",
		"FADE_BLACK": "fade to black and back",
		"SLOW_MO":    "half speed playback over the range",
	}
	soundEffects = map[string]string{
		"WHOOSH":   "fast transition swoosh",
		"DING":     "short bell for reveals",
		"APPLAUSE": "crowd applause",
		"DRUMROLL": "suspense drum roll",
	}
)

const promptTemplate = `You are a professional video post-production assistant. Below is the narration
script of a user's video and the settings they chose.

Original script:
%s

Settings:
Theme / style: %s
Target audience: %s
Video purpose: %s

Available visual effects:
%s
Available sound effects:
%s
Your task:
1. Pick the moments in the script where a visual or sound effect fits the theme.
2. For text overlays use drawtext without a fontfile, for example:
[00:00:07.120 - 00:00:10.300] drawtext=text='So cold!':fontsize=36:fontcolor=white:x=(w-text_w)/2:y=h/4
3. For every other effect use its code, for example:
[00:00:01.000 - 00:00:03.000] {FX_FLASH(duration=0.5)}
[00:00:05.500 - 00:00:06.500] {SFX_WHOOSH}
4. Output only the list of timed effects, one per line, with no explanations.
`

// BuildPrompt renders the script-revision prompt sent to the LLM.
func BuildPrompt(originalScript, theme, audience, purpose string) string {
	return fmt.Sprintf(promptTemplate,
		originalScript,
		orDash(theme),
		orDash(audience),
		orDash(purpose),
		effectList("FX", visualEffects),
		effectList("SFX", soundEffects),
	)
}

func effectList(prefix string, effects map[string]string) string {
	codes := make([]string, 0, len(effects))
	for code := range effects {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	var sb strings.Builder
	for _, code := range codes {
		fmt.Fprintf(&sb, "- {%s_%s}: %s\n", prefix, code, effects[code])
	}
	return sb.String()
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
