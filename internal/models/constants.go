package models

const (
	// DefaultTopK is the retrieval depth per query.
	DefaultTopK = 5

	ThinkTag  = `(?s)<think>.*?</think>`
	JSONFence = "(?s)```(?:json)?\\s*(.*?)```"
)

// SubjectKeywords is the curated lexicon used for keyword scoring, one
// term list per subject. Tamil-script terms keep classification working
// for Tamil-language queries.
var SubjectKeywords = map[Subject][]string{
	SubjectScience: {
		"science", "physics", "chemistry", "biology", "atom", "molecule",
		"cell", "force", "energy", "matter", "experiment", "reaction",
		"element", "compound", "acid", "base", "metal", "plant", "animal",
		"body", "organ", "ecosystem", "environment", "photosynthesis", "respiration",
		"விஞ்ஞானம்", "இயற்பியல்", "வேதியியல்", "உயிரியல்",
	},
	SubjectMaths: {
		"math", "maths", "mathematics", "algebra", "geometry", "arithmetic",
		"equation", "number", "calculate", "solve", "formula", "theorem",
		"fraction", "decimal", "percentage", "angle", "triangle", "circle",
		"கணிதம்", "எண்கள்", "கணக்கு", "சமன்பாடு",
	},
	SubjectEnglish: {
		"english", "grammar", "vocabulary", "sentence", "noun", "verb",
		"adjective", "pronoun", "tense", "paragraph", "essay", "comprehension",
		"story", "poem", "poetry", "novel", "character", "author", "literature",
		"prose", "drama", "play", "adventure", "hero", "plot", "theme", "fiction",
	},
	SubjectSocialScience: {
		"social", "history", "geography", "civics", "economics", "map",
		"continent", "country", "government", "democracy", "civilization",
		"empire", "kingdom", "independence", "freedom", "revolt", "war",
		"battle", "king", "queen", "ruler", "dynasty", "ancient", "medieval",
		"revolution", "reform", "colonialism", "nation", "culture", "temple",
		"சமூக அறிவியல்", "வரலாறு", "புவியியல்",
	},
	SubjectTamil: {
		"தமிழ்", "இலக்கணம்", "இலக்கியம்", "கவிதை", "உரைநடை",
		"திருக்குறள்", "பாடல்", "சொல்",
	},
}

// MathProblemPatterns mark a query as a solvable math problem. Matching
// any of them forces the Maths subject and the step-by-step variant.
var MathProblemPatterns = []string{
	`solve`,
	`calculate`,
	`find the value`,
	`evaluate`,
	`simplify`,
	`factorize`,
	`prove that`,
	`\d+\s*[\+\-\*/=]`,
	`x\s*[\+\-\*/=]`,
	`area of`,
	`perimeter of`,
	`sum of`,
	`product of`,
	`how many`,
	`how much`,
	`ratio`,
	`proportion`,
	`\d+\s*%`,
	`\d+\s*percent`,
	`\d+\s*சதவீதம்`,
	`கணக்கிடு`,
	`தீர்க்க`,
	`கண்டுபிடி`,
	`எத்தனை`,
	`எவ்வளவு`,
	`மொத்தம்`,
	`விகிதம்`,
}

// SciencePatterns back up the lexicon when no keyword matched at all.
var SciencePatterns = []string{
	`photosynthesis`,
	`chemical`,
	`physical properties`,
	`reaction`,
	`experiment`,
	`organism`,
	`cell structure`,
}

// Content-type hint keyword families, shared by the query classifier
// and the ingest-side chunk tagger.
var (
	ExerciseKeywords   = []string{"solve", "find", "calculate", "exercise", "problem", "கணக்கிடுக", "தீர்க்க"}
	ExampleKeywords    = []string{"example", "for instance", "such as", "e.g.", "எடுத்துக்காட்டு", "உதாரணம்"}
	DefinitionKeywords = []string{"definition", "is defined as", "refers to", "வரையறை", "என்பது"}
	FormulaKeywords    = []string{"formula", "equation", "சூத்திரம்"}
	TheoryKeywords     = []string{"what is", "explain", "describe", "why", "என்ன", "ஏன்"}
)

const ClassifyPromptTemplate = `Classify the following student question into exactly one of these subjects: Science, Maths, English, Social_Science, Tamil.
Respond with only the subject name, nothing else.

Question: %s

Subject:`

const GeneralPromptTemplate = `You are a helpful school tutor assistant.
You answer questions based on the provided context from school textbooks.
Format your response as structured JSON.

Context: %s

Question: %s

INSTRUCTIONS:
1. Read the context carefully and extract relevant information to answer the question
2. Write a DETAILED SUMMARY with 2-3 complete sentences that explain the topic thoroughly based on the context
3. Extract key bullet points with specific facts, definitions, and properties (at least 3-5 points)
4. ALWAYS create a table with relevant properties, facts, or comparisons from the context

CRITICAL RULES:
- The "summary" field MUST contain 2-3 complete sentences with comprehensive explanation
- The "table" field MUST contain at least one table with properties and values from the context
- Do NOT leave the table empty - extract relevant data from context

Respond ONLY with valid JSON in this format:
{
    "summary": "Write 2-3 complete sentences here that thoroughly explain the answer. Include specific details from the context.",
    "caption": "Short Title",
    "bullet_points": [{"point": "specific fact 1"}, {"point": "specific fact 2"}, {"point": "specific fact 3"}],
    "table": [{"header": "Topic Information", "rows": [{"property": "Key Property 1", "value": "Value 1"}, {"property": "Key Property 2", "value": "Value 2"}]}]
}`

const MathPromptTemplate = `You are a helpful math tutor assistant.
You solve math problems step by step with detailed explanations.
You MUST solve the problem yourself - do not just describe the problem.

Context: %s

Problem: %s

IMPORTANT INSTRUCTIONS:
1. Actually SOLVE the math problem step by step
2. For each step, show the calculation and result
3. Explain WHY each step is taken so students can follow the reasoning

Respond ONLY with valid JSON in this format:
{
    "problem": "restate the original problem here",
    "caption": "title describing the problem type",
    "steps": [
        {
            "step_number": 1,
            "action": "what you're doing",
            "explanation": "why you're doing this step",
            "expression": "the mathematical expression",
            "result": "intermediate result"
        }
    ],
    "final_answer": "the final numerical answer with units",
    "concept_used": ["concept 1", "concept 2"],
    "tips": ["helpful tip for solving similar problems"]
}

CRITICAL: You MUST include at least 2 steps and provide the final numerical answer. DO NOT leave fields empty.`

const (
	EnglishDirective = "CRITICAL LANGUAGE REQUIREMENT: You MUST respond ONLY in English language. All text in your JSON response must be in English only."
	TamilDirective   = "CRITICAL LANGUAGE REQUIREMENT: You MUST respond ONLY in Tamil language. All text in your JSON response must be in Tamil."

	// NoContextNote degrades an empty retrieval into a still-valid
	// generation request instead of an error.
	NoContextNote = "No relevant textbook passages were found for this question. Answer from general knowledge at a school level, and say so in the summary."
)

const RepairPromptTemplate = `%s

Your previous output was invalid because: %s

Previous output:
%s

Reissue your answer as strictly valid JSON matching the required format. Output the JSON object only, with no extra prose.`
