package llm

import (
	"fmt"
	"strings"

	"github.com/memewire/memewire/internal/catalog"
)

// MemePrompt builds the comprehensive one-call prompt asking for description,
// emotion, category, dialogues and hashtags at once. The variant index picks
// a differently worded phrasing: identical retries of a malformed response
// tend to reproduce the same malformed shape, reworded ones often do not.
func MemePrompt(newsContent string, emotions []catalog.Emotion, variant int) string {
	emotionOptions := make([]string, 0, len(emotions))
	for _, e := range emotions {
		emotionOptions = append(emotionOptions, fmt.Sprintf("- %s: %s", strings.ToLower(e.Label), e.Description))
	}
	emotionList := strings.Join(emotionOptions, "\n")

	switch variant % 3 {
	case 1:
		return fmt.Sprintf(`Respond with ONLY a JSON object, no prose before or after it.

News article: %q

The JSON object must have exactly these keys:
  "description": a sarcastic, viral-worthy take on the article, 2-3 lines, no emojis
  "emotion": the dominant emotion of your description, picked from this list (return just the lowercase label):
%s
  "category": one of politics, entertainment, movies, sports, business, technology, crime
  "dialogues": array of 2 sarcastic meme captions, each at most 8 words, formats like "When...", "Me:", "POV:"
  "hashtags": array of 6-8 sarcastic or buzzy hashtags
`, newsContent, emotionList)
	case 2:
		return fmt.Sprintf(`You write meme content. For the news below, list each field on its own labeled line.

NEWS: %q

Reply in exactly this shape:
description: <sarcastic 2-3 line take, no emojis>
emotion: <one lowercase label from the list below>
category: <politics | entertainment | movies | sports | business | technology | crime>
1. <sarcastic meme caption, max 8 words, e.g. "When...">
2. <second sarcastic meme caption, max 8 words, e.g. "Me: ...">
hashtags: <6-8 hashtags starting with #>

Emotion options:
%s
`, newsContent, emotionList)
	default:
		return fmt.Sprintf(`You are a sarcastic, witty social media content creator and news analyst. Process this news article and provide ALL the following information in a single response:

NEWS CONTENT: %q

Provide ALL the following in JSON format:

1. DESCRIPTION: Create a SARCASTIC, BUZZY 2-3 line description
   - Make it viral-worthy and engaging
   - Use sarcastic tone and witty commentary
   - No emojis, just pure sarcastic wit
   - Think like a roast comedian analyzing news

2. EMOTION: After reading your sarcastic description, identify the dominant emotion from these options:
%s
   Return ONLY the emotion label in lowercase.

3. CATEGORY: Categorize into ONE from: politics, entertainment, movies, sports, business, technology, crime
   - If about films/cinema/actors/bollywood -> "movies"
   - If about TV/music/celebrities/awards -> "entertainment"
   - If about police/arrest/murder/fraud/court -> "crime"
   - If about government/elections/politicians -> "politics"

4. DIALOGUES: Create 2 SARCASTIC meme dialogues (max 8 words each)
   - Use formats: "When...", "Me:", "POV:", "Everyone:", "Meanwhile:"
   - Make them hilariously sarcastic and relatable

5. HASHTAGS: Generate 6-8 sarcastic/buzzy hashtags

RETURN EVERYTHING in this EXACT JSON structure:
{
    "description": "Sarcastic line 1\nSarcastic line 2",
    "emotion": "emotion_label",
    "category": "category_name",
    "dialogues": ["sarcastic dialogue 1 (max 8 words)", "sarcastic dialogue 2 (max 8 words)"],
    "hashtags": ["#SarcasticTag1", "#BuzzyTag2", "#CategoryTag", "#Trending", "#ViralTag", "#SarcasmLevel100"]
}

Analyze and create sarcastic content for this news:
`, newsContent, emotionList)
	}
}
