package models

// Option is a labelled value served to the client for select inputs.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// StylePreset привязывает название стиля к фрагменту промпта.
type StylePreset struct {
	Name   string `json:"name"`
	Prompt string `json:"prompt"`
}

var AudienceOptions = []Option{
	{Value: "Toddlers (Ages 1-3)", Label: "Toddler (Ages 1-3)"},
	{Value: "Preschoolers (Ages 3-5)", Label: "Preschool (Ages 3-5)"},
	{Value: "Early Elementary (Grades K-2)", Label: "Early Elementary (K-2)"},
	{Value: "Upper Elementary (Grades 3-5)", Label: "Upper Elementary (3-5)"},
	{Value: "Middle School (Grades 6-8)", Label: "Middle School (6-8)"},
	{Value: "High School (Grades 9-12)", Label: "High School (9-12)"},
	{Value: "University Students", Label: "University"},
	{Value: "Adult Learners", Label: "Adult Learner"},
}

var StoryGenreOptions = []Option{
	{Value: "Any", Label: "Any Genre"},
	{Value: "Fantasy", Label: "Fantasy"},
	{Value: "Science Fiction", Label: "Science Fiction"},
	{Value: "Mystery", Label: "Mystery"},
	{Value: "Adventure", Label: "Adventure"},
	{Value: "Fairy Tale", Label: "Fairy Tale"},
	{Value: "Historical Fiction", Label: "Historical Fiction"},
	{Value: "Comedy", Label: "Comedy"},
	{Value: "Educational", Label: "Educational"},
}

var StoryToneOptions = []Option{
	{Value: "Any", Label: "Any Tone"},
	{Value: "Humorous", Label: "Humorous"},
	{Value: "Serious", Label: "Serious"},
	{Value: "Whimsical", Label: "Whimsical"},
	{Value: "Suspenseful", Label: "Suspenseful"},
	{Value: "Heartwarming", Label: "Heartwarming"},
	{Value: "Inspirational", Label: "Inspirational"},
	{Value: "Mysterious", Label: "Mysterious"},
}

var StorybookIllustrationStyles = []StylePreset{
	{Name: "Default", Prompt: ""},
	{Name: "Cartoon", Prompt: "in a cute, vibrant cartoon style suitable for young children"},
	{Name: "Watercolor", Prompt: "in a soft, flowing watercolor style with gentle colors"},
	{Name: "Line Art", Prompt: "as a clean black and white line art drawing, like a coloring book page"},
	{Name: "Vintage", Prompt: "in a classic, vintage storybook illustration style from the 1950s"},
	{Name: "Claymation", Prompt: "in the style of claymation, with visible textures and fingerprints"},
}

var IllustrationStylePresets = []StylePreset{
	{Name: "Default", Prompt: ""},
	{Name: "Cartoon", Prompt: "in a cute, vibrant cartoon style for children"},
	{Name: "Watercolor", Prompt: "in a soft, flowing watercolor painting style"},
	{Name: "Pixel Art", Prompt: "as colorful 16-bit pixel art"},
	{Name: "Line Art", Prompt: "as a clean black and white line art drawing"},
	{Name: "Photorealistic", Prompt: "photorealistic, 8k, detailed, professional photography"},
	{Name: "Fantasy Art", Prompt: "in a detailed, epic fantasy art style"},
	{Name: "3D Render", Prompt: "as a polished 3D render"},
}

var ImageEditPresets = []StylePreset{
	{Name: "Vintage", Prompt: "Add a retro, vintage filter with faded colors and slight grain"},
	{Name: "Vibrant", Prompt: "Make the colors more vibrant and saturated, enhance the contrast"},
	{Name: "B&W", Prompt: "Convert to a dramatic black and white photo"},
	{Name: "Glow", Prompt: "Add a soft, dreamy glow effect to the image"},
	{Name: "Sunset BG", Prompt: "Realistically change the background to a beautiful sunset over a beach"},
	{Name: "Painterly", Prompt: "Give it a painterly, artistic style, like an oil painting"},
	{Name: "Remove BG", Prompt: "Remove the background, leaving the main subject on a transparent background"},
	{Name: "Add Confetti", Prompt: "Add falling colorful confetti all over the image"},
}

var TTSVoices = []Option{
	{Value: "Kore", Label: "Kore (Calm, Female)"},
	{Value: "Puck", Label: "Puck (Energetic, Male)"},
	{Value: "Zephyr", Label: "Zephyr (Friendly, Female)"},
	{Value: "Charon", Label: "Charon (Deep, Male)"},
	{Value: "Fenrir", Label: "Fenrir (Strong, Male)"},
}

var AssessmentDifficultyOptions = []Option{
	{Value: "Easy", Label: "Easy"},
	{Value: "Medium", Label: "Medium"},
	{Value: "Hard", Label: "Hard"},
	{Value: "Expert", Label: "Expert"},
}

// AspectRatios supported by the image endpoints.
var AspectRatios = []string{"1:1", "16:9", "9:16", "4:3", "3:4"}

// ValidAspectRatio проверяет соотношение сторон из запроса.
func ValidAspectRatio(r string) bool {
	for _, known := range AspectRatios {
		if known == r {
			return true
		}
	}
	return false
}
