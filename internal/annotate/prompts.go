package annotate

// SystemPrompt instructs the remote model to label a single sentence.
const SystemPrompt = `Analyze the given sentence and output a JSON object in the following format:

{
  "main_emotion": "anger | anticipation | disgust | fear | joy | sadness | surprise | trust",
  "sentiment": "positive | negative | neutral"
}

Rules:
- Your output MUST be valid JSON.
- main_emotion must be exactly one of the 8 categories.
- sentiment must be exactly one of: positive, negative, neutral.
- Base your analysis ONLY on the sentence text.`
