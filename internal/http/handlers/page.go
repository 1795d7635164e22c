package handlers

import (
	"html/template"
	"net/http"
	"strconv"

	"ministudio/internal/domain"
	"ministudio/internal/middleware"
)

// pageStrings holds the UI labels for one locale.
type pageStrings struct {
	Title      string
	Tagline    string
	SceneLabel string
	FreeLabel  string
	FreeOption string
	Duration   string
	Steps      string
	Guidance1  string
	Guidance2  string
	SeedLabel  string
	Randomize  string
	Submit     string
	Download   string
	SavedTo    string
	ErrorLabel string
}

var pageLocales = map[string]pageStrings{
	"en": {
		Title:      "Text-to-Video Mini-Studio",
		Tagline:    "WAN 2.2 text-to-video demo",
		SceneLabel: "Choose a preset scene",
		FreeLabel:  "Describe your scene (free-form bonus)",
		FreeOption: "Free-form prompt",
		Duration:   "Duration (seconds)",
		Steps:      "Inference steps",
		Guidance1:  "Guidance scale (high-noise)",
		Guidance2:  "Guidance scale 2 (low-noise)",
		SeedLabel:  "Seed",
		Randomize:  "Randomize seed",
		Submit:     "Generate",
		Download:   "Download .mp4",
		SavedTo:    "Saved to",
		ErrorLabel: "Generation failed",
	},
	"zh": {
		Title:      "文生视频小工作室",
		Tagline:    "WAN 2.2 文生视频演示",
		SceneLabel: "选择预设场景",
		FreeLabel:  "描述你的场景（自由输入）",
		FreeOption: "自由输入提示词",
		Duration:   "时长（秒）",
		Steps:      "推理步数",
		Guidance1:  "引导系数（高噪声）",
		Guidance2:  "引导系数 2（低噪声）",
		SeedLabel:  "随机种子",
		Randomize:  "随机化种子",
		Submit:     "生成",
		Download:   "下载 .mp4",
		SavedTo:    "已保存到",
		ErrorLabel: "生成失败",
	},
}

type pageData struct {
	Strings  pageStrings
	Presets  []domain.Preset
	Settings domain.GenerationSettings
	Scene    string
	Free     string
	Result   *artifactResponse
	Error    string
}

var pageTemplate = template.Must(template.New("page").Parse(`<!doctype html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Strings.Title}}</title>
<style>
body { font-family: sans-serif; max-width: 640px; margin: 2rem auto; padding: 0 1rem; }
fieldset { margin-bottom: 1rem; border: 1px solid #ccc; }
label { display: block; margin: 0.4rem 0; }
textarea { width: 100%; height: 6rem; }
video { width: 100%; margin-top: 1rem; }
.error { color: #b00020; white-space: pre-wrap; }
</style>
</head>
<body>
<h1>🎬 {{.Strings.Title}}</h1>
<p>{{.Strings.Tagline}}</p>
<form method="post" action="/generate">
<fieldset>
<legend>{{.Strings.SceneLabel}}</legend>
{{range .Presets}}
<label><input type="radio" name="scene" value="{{.Choice}}"{{if eq $.Scene (printf "%d" .Choice)}} checked{{end}}> {{.Name}}</label>
{{end}}
<label><input type="radio" name="scene" value="free"{{if eq .Scene "free"}} checked{{end}}> {{.Strings.FreeOption}}</label>
<label>{{.Strings.FreeLabel}}<textarea name="free_prompt">{{.Free}}</textarea></label>
</fieldset>
<fieldset>
<label>{{.Strings.Duration}} <input type="number" name="duration" step="0.1" min="3" max="6" value="{{.Settings.Duration}}"></label>
<label>{{.Strings.Steps}} <input type="number" name="steps" min="2" max="8" value="{{.Settings.Steps}}"></label>
<label>{{.Strings.Guidance1}} <input type="number" name="guidance_scale" step="0.1" value="{{.Settings.GuidanceScale}}"></label>
<label>{{.Strings.Guidance2}} <input type="number" name="guidance_scale_2" step="0.1" value="{{.Settings.GuidanceScale2}}"></label>
<label>{{.Strings.SeedLabel}} <input type="number" name="seed" value="{{.Settings.Seed}}"></label>
<label><input type="checkbox" name="randomize_seed"{{if .Settings.RandomizeSeed}} checked{{end}}> {{.Strings.Randomize}}</label>
</fieldset>
<button type="submit">{{.Strings.Submit}} 🎥</button>
</form>
{{if .Error}}<p class="error">{{.Strings.ErrorLabel}}: {{.Error}}</p>{{end}}
{{if .Result}}
<video controls src="{{.Result.URL}}"></video>
<p><a href="{{.Result.URL}}" download>{{.Strings.Download}}</a></p>
<p>Seed: {{.Result.Seed}} • {{.Strings.SavedTo}}: <code>{{.Result.File}}</code></p>
{{end}}
</body>
</html>
`))

func localeStrings(locale string) pageStrings {
	if s, ok := pageLocales[locale]; ok {
		return s
	}
	return pageLocales["en"]
}

// Page renders the single-page form.
func (a *App) Page(w http.ResponseWriter, r *http.Request) {
	a.renderPage(w, r, pageData{
		Scene:    "1",
		Settings: domain.DefaultSettings(),
	})
}

// GenerateForm handles the form submission and re-renders the page with the
// player or the surfaced error.
func (a *App) GenerateForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		a.error(w, http.StatusBadRequest, "bad_request", "invalid form")
		return
	}
	scene := r.PostFormValue("scene")
	free := r.PostFormValue("free_prompt")
	input := scene
	if scene == "free" || scene == "" {
		input = free
	}
	settings := formSettings(r, domain.DefaultSettings())
	data := pageData{Scene: scene, Free: free, Settings: settings}

	prompt, err := domain.ResolvePrompt(input)
	if err != nil {
		data.Error = err.Error()
		a.renderPage(w, r, data)
		return
	}
	artifact, err := a.Studio.Generate(r.Context(), prompt, settings)
	if err != nil {
		data.Error = err.Error()
		a.renderPage(w, r, data)
		return
	}
	resp := toArtifactResponse(artifact)
	data.Result = &resp
	a.renderPage(w, r, data)
}

func (a *App) renderPage(w http.ResponseWriter, r *http.Request, data pageData) {
	data.Strings = localeStrings(middleware.LocaleFromContext(r.Context()))
	data.Presets = domain.Presets
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pageTemplate.Execute(w, data); err != nil {
		a.Logger.Error().Err(err).Msg("handlers: render page failed")
	}
}

// formSettings parses the tunables from the form, keeping defaults for
// missing or malformed values.
func formSettings(r *http.Request, settings domain.GenerationSettings) domain.GenerationSettings {
	if v, err := strconv.ParseFloat(r.PostFormValue("duration"), 64); err == nil && v > 0 {
		settings.Duration = v
	}
	if v, err := strconv.Atoi(r.PostFormValue("steps")); err == nil && v > 0 {
		settings.Steps = v
	}
	if v, err := strconv.ParseFloat(r.PostFormValue("guidance_scale"), 64); err == nil && v > 0 {
		settings.GuidanceScale = v
	}
	if v, err := strconv.ParseFloat(r.PostFormValue("guidance_scale_2"), 64); err == nil && v > 0 {
		settings.GuidanceScale2 = v
	}
	if v, err := strconv.ParseInt(r.PostFormValue("seed"), 10, 64); err == nil {
		settings.Seed = v
	}
	settings.RandomizeSeed = r.PostFormValue("randomize_seed") != ""
	return settings
}
