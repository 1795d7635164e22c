package domain

import "strings"

// MaxPromptLength caps free-form prompts before they reach the model. The
// WAN Space rejects longer inputs anyway.
const MaxPromptLength = 2000

// NegativePrompt is the WAN 2.2 negative prompt. The model is trained on
// Chinese captions; this constant is sent verbatim with every generation.
const NegativePrompt = "色调艳丽, 过曝, 静态, 细节模糊不清, 字幕, 风格, 作品, 画作, 画面, 静止, 整体发灰, 最差质量, 低质量, " +
	"JPEG压缩残留, 丑陋的, 残缺的, 多余的手指, 画得不好的手部, 画得不好的脸部, 畸形的, 毁容的, " +
	"形态畸形的肢体, 手指融合, 静止不动的画面, 杂乱的背景, 三条腿, 背景人很多, 倒着走"

// Preset is one of the fixed demo scenes offered by the studio.
type Preset struct {
	Choice int
	Name   string
	Prompt string
}

// Presets lists the fixed scenes in menu order. The prompt strings are part
// of the public contract and must not be reworded.
var Presets = []Preset{
	{Choice: 1, Name: "Nail with hammer", Prompt: "nailing a standard nail into a block of wood using a claw hammer"},
	{Choice: 2, Name: "Screw in & out", Prompt: "installing a screw into a block of wood using a power screwdriver, then unscrewing it"},
	{Choice: 3, Name: "Add gas to vehicle", Prompt: "adding gas from a gas can to a vehicle"},
}

// PresetByChoice returns the preset for a 1-based menu choice.
func PresetByChoice(choice int) (Preset, bool) {
	for _, p := range Presets {
		if p.Choice == choice {
			return p, true
		}
	}
	return Preset{}, false
}

// ResolvePrompt maps raw user input to the prompt text sent to the model.
// "1", "2" and "3" select the corresponding preset; anything else is treated
// as a literal free-form prompt and passed through unchanged apart from
// trimming surrounding whitespace.
func ResolvePrompt(input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return "", ErrEmptyPrompt
	}
	switch trimmed {
	case "1", "2", "3":
		p, _ := PresetByChoice(int(trimmed[0] - '0'))
		return p.Prompt, nil
	}
	if len(trimmed) > MaxPromptLength {
		return "", ErrPromptTooLong
	}
	return trimmed, nil
}

// ValidatePrompt enforces the same rules as ResolvePrompt on an already
// resolved prompt string.
func ValidatePrompt(prompt string) error {
	trimmed := strings.TrimSpace(prompt)
	if trimmed == "" {
		return ErrEmptyPrompt
	}
	if len(trimmed) > MaxPromptLength {
		return ErrPromptTooLong
	}
	return nil
}
