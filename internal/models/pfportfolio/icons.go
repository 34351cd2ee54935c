package pfportfolio

import "strings"

// Table des noms de compétences connus vers leur slug SimpleIcons
var skillIconSlugs = map[string]string{
	// Frontend
	"react":         "react",
	"react.js":      "react",
	"reactjs":       "react",
	"next.js":       "nextdotjs",
	"nextjs":        "nextdotjs",
	"vue":           "vuedotjs",
	"vue.js":        "vuedotjs",
	"angular":       "angular",
	"svelte":        "svelte",
	"tailwind":      "tailwindcss",
	"tailwind css":  "tailwindcss",
	"tailwindcss":   "tailwindcss",
	"bootstrap":     "bootstrap",
	"html":          "html5",
	"html5":         "html5",
	"css":           "css",
	"css3":          "css",
	"sass":          "sass",
	"scss":          "sass",

	// Langages
	"javascript": "javascript",
	"js":         "javascript",
	"typescript": "typescript",
	"ts":         "typescript",
	"python":     "python",
	"java":       "java",
	"c#":         "sharp",
	"csharp":     "sharp",
	"c++":        "cplusplus",
	"cpp":        "cplusplus",
	"go":         "go",
	"golang":     "go",
	"rust":       "rust",
	"php":        "php",
	"ruby":       "ruby",
	"swift":      "swift",
	"kotlin":     "kotlin",
	"dart":       "dart",

	// Backend et bases de données
	"node":       "nodedotjs",
	"node.js":    "nodedotjs",
	"nodejs":     "nodedotjs",
	"express":    "express",
	"express.js": "express",
	"laravel":    "laravel",
	"django":     "django",
	"flask":      "flask",
	"fastapi":    "fastapi",
	"spring":     "spring",
	"mysql":      "mysql",
	"postgresql": "postgresql",
	"postgres":   "postgresql",
	"mongodb":    "mongodb",
	"mongo":      "mongodb",
	"redis":      "redis",
	"sqlite":     "sqlite",
	"sql server": "sqlserver",
	"mssql":      "sqlserver",
	"supabase":   "supabase",
	"firebase":   "firebase",

	// Mobile
	"flutter":      "flutter",
	"react native": "react",
	"ionic":        "ionic",
	"capacitor":    "capacitor",

	// Outils et DevOps
	"git":                "git",
	"github":             "github",
	"gitlab":             "gitlab",
	"docker":             "docker",
	"kubernetes":         "kubernetes",
	"k8s":                "kubernetes",
	"aws":                "amazonaws",
	"gcp":                "googlecloud",
	"azure":              "microsoftazure",
	"vercel":             "vercel",
	"netlify":            "netlify",
	"heroku":             "heroku",
	"figma":              "figma",
	"vscode":             "vscode",
	"vs code":            "vscode",
	"visual studio code": "vscode",
	"postman":            "postman",
	"insomnia":           "insomnia",

	// Paiement et APIs
	"stripe":   "stripe",
	"paypal":   "paypal",
	"midtrans": "midtrans",

	// Divers
	"graphql": "graphql",
	"rest":    "json",
	"webpack": "webpack",
	"vite":    "vite",
	"npm":     "npm",
	"yarn":    "yarn",
	"pnpm":    "pnpm",
}

// ResolveIconSlug résout un nom de compétence vers un slug SimpleIcons.
// Uniquement par correspondance exacte : la recherche par sous-chaîne
// produit des faux positifs ("go" dans "django"). À défaut, un slug
// est généré automatiquement depuis le nom.
func ResolveIconSlug(skillName string) string {
	normalized := strings.ToLower(strings.TrimSpace(skillName))
	if normalized == "" {
		return ""
	}

	if slug, ok := skillIconSlugs[normalized]; ok {
		return slug
	}

	return autoSlug(normalized)
}

// autoSlug génère un slug : les points deviennent "dot", les espaces
// et caractères spéciaux sont supprimés
func autoSlug(normalized string) string {
	normalized = strings.ReplaceAll(normalized, ".", "dot")

	var b strings.Builder
	for _, r := range normalized {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SkillIconURL construit l'URL CDN SimpleIcons pour un slug d'icône
func SkillIconURL(slug string, color string) string {
	if slug == "" {
		return ""
	}
	if color == "" {
		color = "000000"
	}
	return "https://cdn.simpleicons.org/" + slug + "/" + color
}
