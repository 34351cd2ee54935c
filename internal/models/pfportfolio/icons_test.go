package pfportfolio

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolveIconSlug_ExactMatch(t *testing.T) {
	assert.Equal(t, "react", ResolveIconSlug("React"))
	assert.Equal(t, "nextdotjs", ResolveIconSlug("Next.js"))
	assert.Equal(t, "vuedotjs", ResolveIconSlug("vue.js"))
	assert.Equal(t, "go", ResolveIconSlug("Go"))
	assert.Equal(t, "go", ResolveIconSlug("Golang"))
	assert.Equal(t, "sharp", ResolveIconSlug("C#"))
	assert.Equal(t, "cplusplus", ResolveIconSlug("C++"))
	assert.Equal(t, "vscode", ResolveIconSlug("  VS Code  "))
}

func TestResolveIconSlug_NoSubstringMatch(t *testing.T) {
	// Pas de correspondance partielle : "Go" ne doit jamais matcher
	// "Django" ou "MongoDB" et inversement
	assert.Equal(t, "go", ResolveIconSlug("go"))
	assert.Equal(t, "django", ResolveIconSlug("django"))
	assert.Equal(t, "mongodb", ResolveIconSlug("mongodb"))

	// Un nom inconnu contenant une clé connue passe par l'auto-slug,
	// pas par la table
	assert.Equal(t, "djangorest", ResolveIconSlug("Django REST"))
	assert.Equal(t, "golandide", ResolveIconSlug("GoLand IDE"))
}

func TestResolveIconSlug_AutoSlug(t *testing.T) {
	// Les points deviennent "dot", espaces et spéciaux disparaissent
	assert.Equal(t, "mydotlib", ResolveIconSlug("My.Lib"))
	assert.Equal(t, "somenewtool", ResolveIconSlug("Some New Tool!"))
	assert.Equal(t, "abc123", ResolveIconSlug("ABC 123"))
	assert.Equal(t, "", ResolveIconSlug(""))
	assert.Equal(t, "", ResolveIconSlug("   "))
}

func TestSkillIconURL(t *testing.T) {
	assert.Equal(t, "https://cdn.simpleicons.org/react/000000", SkillIconURL("react", ""))
	assert.Equal(t, "https://cdn.simpleicons.org/go/61DAFB", SkillIconURL("go", "61DAFB"))
	assert.Equal(t, "", SkillIconURL("", ""))
}
