package grammar_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/conversa-labs/user-agent/pkg/grammar"
)

func TestParseDeleteUser(t *testing.T) {
	p := grammar.New()

	cmd, ok := p.Parse("Delete user id 10")
	require.True(t, ok)
	assert.Equal(t, "deleteUser", cmd.Tool)
	assert.Equal(t, 10, cmd.Args["id"])
}

func TestParseUnrelatedSentence(t *testing.T) {
	p := grammar.New()

	_, ok := p.Parse("random unrelated sentence")
	assert.False(t, ok)
}

func TestParseCreateUserEnglish(t *testing.T) {
	p := grammar.New()

	cmd, ok := p.Parse("Create user named Bob, email bob@example.com, password Secret!")
	require.True(t, ok)
	assert.Equal(t, "createUser", cmd.Tool)
	assert.Equal(t, "Bob", cmd.Args["name"])
	assert.Equal(t, "bob@example.com", cmd.Args["email"])
	assert.Equal(t, "Secret!", cmd.Args["password"])
}

func TestParseCreateUserArabicWithGluedConjunctions(t *testing.T) {
	p := grammar.New()

	cmd, ok := p.Parse("اضف مستخدم اسمه كريم وبريده test@example.com وباسورد Pass123!")
	require.True(t, ok)
	assert.Equal(t, "createUser", cmd.Tool)
	assert.Equal(t, "كريم", cmd.Args["name"])
	assert.Equal(t, "test@example.com", cmd.Args["email"])
	assert.Equal(t, "Pass123!", cmd.Args["password"])
}

func TestParseListUsersWithPageAndPerPage(t *testing.T) {
	p := grammar.New()

	cmd, ok := p.Parse("Show users page 2, 10 per page")
	require.True(t, ok)
	assert.Equal(t, "listUsers", cmd.Tool)
	assert.Equal(t, 2, cmd.Args["page"])
	assert.Equal(t, 10, cmd.Args["perPage"])
}

func TestParseListUsersLastPageArabic(t *testing.T) {
	p := grammar.New()

	cmd, ok := p.Parse("اعرض لي الصفحة الأخيرة من المستخدمين")
	require.True(t, ok)
	assert.Equal(t, "listUsers", cmd.Tool)
	assert.Equal(t, "last", cmd.Args["page"])
}

func TestParseListUsersWithoutPageFails(t *testing.T) {
	p := grammar.New()

	// A list verb alone is not enough; a page expression is required.
	_, ok := p.Parse("Show users")
	assert.False(t, ok)
}

func TestParseListLastUsers(t *testing.T) {
	p := grammar.New()

	cmd, ok := p.Parse("Show me the last 3 users")
	require.True(t, ok)
	assert.Equal(t, "listLastUsers", cmd.Tool)
	assert.Equal(t, 3, cmd.Args["count"])
}

func TestParseListLastUsersDefaultCount(t *testing.T) {
	p := grammar.New()

	cmd, ok := p.Parse("Show the latest users")
	require.True(t, ok)
	assert.Equal(t, "listLastUsers", cmd.Tool)
	assert.Equal(t, 5, cmd.Args["count"])
}

func TestParseUpdateUser(t *testing.T) {
	p := grammar.New()

	cmd, ok := p.Parse("Update user id 5, set name to Ahmed")
	require.True(t, ok)
	assert.Equal(t, "updateUser", cmd.Tool)
	assert.Equal(t, 5, cmd.Args["id"])
	assert.Equal(t, "Ahmed", cmd.Args["name"])
}

func TestParseUpdateUserRequiresAField(t *testing.T) {
	p := grammar.New()

	// An id with nothing to change is not a valid update.
	_, ok := p.Parse("Update user id 5")
	assert.False(t, ok)
}

func TestParseDeleteRequiresID(t *testing.T) {
	p := grammar.New()

	_, ok := p.Parse("Delete the user")
	assert.False(t, ok)
}
