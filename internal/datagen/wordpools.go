package datagen

// Word pools used to assemble free-text values and document chunks.
var businessWords = []string{
	"product", "service", "platform", "digital", "cloud", "data", "system",
	"network", "security", "performance", "solution", "integration",
	"analytics", "automation", "infrastructure", "management", "enterprise",
	"scalable", "reliable", "efficient", "innovative", "modern", "advanced",
	"premium", "professional", "dynamic", "global", "strategic", "customer",
	"market", "growth", "development", "technology", "quarterly", "revenue",
	"pipeline", "forecast", "operations", "delivery", "support",
}

var documentTypes = []string{
	"report", "policy", "review", "summary", "guideline", "memo", "faq",
	"transcript", "case_study",
}

var sentenceOpeners = []string{
	"The team reported that",
	"Recent analysis shows that",
	"According to the latest review,",
	"Stakeholders noted that",
	"The quarterly summary indicates that",
	"Field feedback suggests that",
}
