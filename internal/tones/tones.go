package tones

// Tone steers caption generation. Prompt is the instruction sent to the
// model alongside the image.
type Tone struct {
	ID          string `json:"tone"`
	Label       string `json:"label"`
	Description string `json:"description"`
	Prompt      string `json:"prompt"`
}

// DefaultID is the tone used when the requested one is unknown or absent.
const DefaultID = "social media"

var catalog = []Tone{
	{
		ID:          "funny",
		Label:       "Funny",
		Description: "Humor, puns, and witty remarks",
		Prompt:      "Generate a funny caption for this image. Use humor, puns, or witty remarks to make people laugh. Keep it lighthearted and playful.",
	},
	{
		ID:          "serious",
		Label:       "Serious",
		Description: "Mature and thoughtful",
		Prompt:      "Generate a serious and thoughtful caption for this image. Focus on a mature, reflective, or professional tone.",
	},
	{
		ID:          "descriptive",
		Label:       "Descriptive",
		Description: "Detailed visual description",
		Prompt:      "Generate a descriptive caption for this image. Describe what you see in detail, focusing on the visual elements and atmosphere.",
	},
	{
		ID:          "roasting",
		Label:       "Roasting",
		Description: "Playful roast and memes",
		Prompt:      "Generate a roast-style caption for this image. Make it playful and meme-like, poking fun at the subject in a lighthearted way.",
	},
	{
		ID:          "social media",
		Label:       "Social Media",
		Description: "Influencer-style with hashtags",
		Prompt:      "Generate a social media influencer-style caption for this image. Make it trendy, engaging, and use popular hashtags and phrases.",
	},
	{
		ID:          "basic",
		Label:       "Basic",
		Description: "Simple and straightforward",
		Prompt:      "Generate a basic caption for this image. Keep it simple, straightforward, and to the point.",
	},
}

// All returns the catalog in display order.
func All() []Tone {
	out := make([]Tone, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the tone for id, falling back to the default tone when the
// id is unknown or empty.
func Lookup(id string) Tone {
	for _, t := range catalog {
		if t.ID == id {
			return t
		}
	}
	return Default()
}

// Default returns the designated default tone.
func Default() Tone {
	for _, t := range catalog {
		if t.ID == DefaultID {
			return t
		}
	}
	return catalog[0]
}
