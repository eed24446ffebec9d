package classify

// negativeKeywords disqualify an entry outright when matched as a whole word
// in either title or summary, case-insensitive
var negativeKeywords = []string{
	"politics", "political", "election", "vote", "government", "parliament", "congress",
	"sex", "sexual", "abuse", "assault",
	"crime", "murder", "killed", "death", "dead", "shooting", "stabbed", "violence",
	"violent", "arrest", "police", "theft", "robbery", "fraud",
	"stock market", "shares", "dow jones", "nasdaq", "finance", "economy", "economic",
	"recession", "inflation", "tariff",
	"war", "conflict", "military", "attack", "bombing", "invasion",
	"disaster", "crash", "crisis", "emergency",
	"protest", "riot",
	"scandal",
}

// positiveKeywords admit an entry regardless of its sentiment score
var positiveKeywords = []string{
	"hero", "heroes", "rescued", "rescue", "saved", "breakthrough", "triumph",
	"overcame", "inspiring", "inspiration", "uplifting", "heartwarming", "kindness",
	"donated", "donation", "volunteer", "volunteers", "charity", "celebration",
	"celebrated", "achievement", "milestone", "recovery", "reunited", "adopted",
	"graduated", "scholarship", "discovery",
}

// highImpactKeywords each add one point to the inspiration composite, counted once
var highImpactKeywords = []string{
	"breakthrough", "triumph", "overcame", "hero", "saved", "rescued",
}

// strongPositiveWords gate the fallback "Inspiring" tag
var strongPositiveWords = []string{
	"amazing", "incredible", "inspiring", "wonderful", "extraordinary", "remarkable",
}

// topicRule binds a topic name to its scoring keywords; order matters, the
// first topic to reach the maximum count wins ties
type topicRule struct {
	name     string
	keywords []string
}

var topicRules = []topicRule{
	{"technology", []string{
		"technology", "tech", "software", "app", "robot", "robotics", "ai",
		"artificial intelligence", "computer", "internet", "digital", "gadget",
		"smartphone", "startup", "innovation", "engineering", "drone", "coding",
	}},
	{"science", []string{
		"science", "scientist", "scientists", "research", "researchers", "study",
		"discovery", "discovered", "space", "nasa", "astronomy", "physics", "biology",
		"chemistry", "experiment", "breakthrough", "species", "telescope", "laboratory",
	}},
	{"business", []string{
		"business", "company", "entrepreneur", "entrepreneurship", "founder",
		"small business", "enterprise", "industry", "retail", "brand", "product launch",
	}},
	{"health", []string{
		"health", "healthy", "medical", "medicine", "doctor", "doctors", "hospital",
		"patient", "patients", "cure", "treatment", "therapy", "vaccine", "wellness",
		"mental health", "fitness", "nutrition", "cancer", "surgery", "recovery",
	}},
	{"environment", []string{
		"environment", "environmental", "climate", "nature", "wildlife", "conservation",
		"renewable", "solar", "wind power", "recycling", "sustainability", "sustainable",
		"forest", "ocean", "river", "planet", "ecosystem", "endangered", "reforestation",
	}},
	{"personal_growth", []string{
		"motivation", "motivated", "self improvement", "learning", "goal", "goals",
		"habit", "habits", "mindset", "productivity", "growth", "resilience",
		"meditation", "mindfulness", "graduated", "scholarship", "education",
	}},
	{"social_impact", []string{
		"charity", "donation", "donated", "volunteer", "volunteers", "nonprofit",
		"community service", "fundraiser", "kindness", "helping", "homeless",
		"shelter", "humanitarian", "giving back", "good samaritan",
	}},
	{"culture", []string{
		"art", "artist", "music", "musician", "film", "movie", "book", "books",
		"author", "museum", "theater", "festival", "dance", "painting", "culture",
		"heritage", "photography",
	}},
	{"travel", []string{
		"travel", "traveler", "journey", "destination", "adventure", "tourism",
		"tourist", "vacation", "trip", "explore", "exploring", "hiking", "road trip",
	}},
	{"relationships", []string{
		"family", "families", "friendship", "friends", "marriage", "wedding",
		"couple", "love", "reunited", "reunion", "parents", "grandmother",
		"grandfather", "adoption", "adopted",
	}},
	{"sports", []string{
		"sport", "sports", "team", "athlete", "athletes", "championship", "olympic",
		"olympics", "marathon", "soccer", "football", "basketball", "baseball",
		"tennis", "swimming", "coach", "tournament", "record",
	}},
}

// TopicGeneral is the fallback topic when no topic keywords match
const TopicGeneral = "general"

// Topics returns the topic vocabulary in declaration order, general last
func Topics() []string {
	out := make([]string, 0, len(topicRules)+1)
	for _, r := range topicRules {
		out = append(out, r.name)
	}
	return append(out, TopicGeneral)
}
