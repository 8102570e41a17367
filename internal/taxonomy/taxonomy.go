// Package taxonomy holds the static catalog of recognized skills and the
// normalization rules that map raw skill strings to their canonical forms.
package taxonomy

// Technical holds canonical technical skill names.
var Technical = newSet(
	// Programming languages
	"python", "java", "javascript", "typescript", "c++", "cpp", "c#", "csharp",
	"php", "ruby", "go", "golang", "rust", "kotlin", "swift", "r", "scala",
	"perl", "bash", "shell", "powershell", "matlab", "vba",

	// Web development
	"html", "html5", "css", "css3", "sass", "scss", "less",
	"react", "reactjs", "react.js", "angular", "vue", "vuejs", "vue.js",
	"nodejs", "node.js", "express", "expressjs", "nestjs",
	"django", "flask", "fastapi", "spring", "spring boot",
	"laravel", "symfony", "rails", "ruby on rails", "asp.net",
	"next.js", "nextjs", "nuxt.js", "gatsby", "svelte",
	"jquery", "bootstrap", "tailwind", "webpack", "vite",

	// Mobile development
	"android", "ios", "react native", "flutter", "xamarin", "ionic",
	"objective-c", "cordova",

	// Databases
	"sql", "mysql", "postgresql", "postgres", "mongodb", "redis",
	"oracle", "sql server", "mariadb", "sqlite", "cassandra",
	"dynamodb", "elasticsearch", "neo4j", "couchdb", "firebase",
	"nosql", "database", "db2",

	// Data science and AI/ML
	"machine learning", "ml", "deep learning", "artificial intelligence", "ai",
	"nlp", "natural language processing", "computer vision",
	"tensorflow", "pytorch", "keras", "scikit-learn", "sklearn",
	"pandas", "numpy", "matplotlib", "seaborn", "plotly", "jupyter",
	"data analysis", "data science", "statistics", "statistical analysis",
	"data mining", "data visualization", "big data", "spark", "hadoop",
	"r programming", "sas", "spss",

	// Cloud and DevOps
	"aws", "amazon web services", "azure", "microsoft azure", "gcp", "google cloud",
	"docker", "kubernetes", "k8s", "jenkins", "gitlab", "github actions",
	"terraform", "ansible", "puppet", "chef", "vagrant",
	"ci/cd", "cicd", "linux", "unix", "windows server",
	"nginx", "apache", "tomcat", "heroku", "digitalocean",

	// Business and analytics tools
	"excel", "microsoft excel", "power bi", "powerbi", "tableau",
	"google analytics", "seo", "sem", "digital marketing",
	"business intelligence", "bi",
	"looker", "qlik", "sap", "erp", "crm", "salesforce",

	// Design and multimedia
	"photoshop", "adobe photoshop", "illustrator", "figma", "sketch",
	"adobe xd", "indesign", "premiere pro", "after effects",
	"ui", "ux", "ui/ux", "user interface", "user experience",
	"graphic design", "web design", "video editing",

	// Version control and collaboration
	"git", "github", "bitbucket", "svn", "mercurial",
	"jira", "confluence", "trello", "asana", "slack", "teams",

	// APIs and architecture
	"rest", "restful", "rest api", "graphql", "soap", "microservices",
	"api", "api development", "webhooks", "grpc",

	// Testing and QA
	"testing", "unit testing", "integration testing", "e2e testing",
	"jest", "pytest", "selenium", "cypress", "junit",
	"test automation", "qa", "quality assurance",

	// Security
	"security", "cybersecurity", "encryption", "authentication",
	"oauth", "jwt", "ssl", "tls", "penetration testing",

	// Other technical
	"blockchain", "cryptocurrency", "iot", "embedded systems",
	"robotics", "ar", "vr", "augmented reality", "virtual reality",
)

// Soft holds canonical soft skill names.
var Soft = newSet(
	"communication", "teamwork", "team work", "leadership", "problem solving",
	"critical thinking", "creativity", "time management", "project management",
	"collaboration", "adaptability", "flexibility", "attention to detail",
	"analytical", "organizational", "presentation", "negotiation",
	"conflict resolution", "decision making", "emotional intelligence",
	"work ethic", "interpersonal", "multitasking", "planning",
	"strategic thinking", "initiative", "self-motivated", "customer service",
)

// Methodology holds canonical methodology names.
var Methodology = newSet(
	"agile", "scrum", "kanban", "waterfall", "lean", "six sigma",
	"devops", "design thinking", "tdd", "bdd", "continuous integration",
)

// all is the union of every category, built once at init.
var all = Technical.Union(Soft).Union(Methodology)

// All returns the union of every skill category.
func All() Set {
	return all
}

// aliases maps known variant spellings to their canonical form. Each target is
// canonical: no target appears as a key, so a single lookup fully resolves and
// Normalize is idempotent.
var aliases = map[string]string{
	"powerbi":  "power bi",
	"power-bi": "power bi",
	"ml":       "machine learning",
	"ai":       "artificial intelligence",
	"js":       "javascript",
	"ts":       "typescript",
	"k8s":      "kubernetes",
	"ci/cd":    "cicd",
	"bi":       "business intelligence",
	"vue.js":   "vue",
	"vuejs":    "vue",
	"react.js": "react",
	"reactjs":  "react",
	"nodejs":   "node.js",
	"cpp":      "c++",
	"csharp":   "c#",
	"ui/ux":    "ui ux",
}

// Contains reports whether the given string is a recognized skill, either
// directly or after normalization.
func Contains(s string) bool {
	if all.Contains(s) {
		return true
	}
	return all.Contains(Normalize(s))
}
