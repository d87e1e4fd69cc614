// Package grammar is the regex fallback parser: it turns normalized free
// text into a structured command by bilingual (Arabic/English) keyword
// matching, with no model call. It is deliberately narrow slot-filling over
// a fixed command vocabulary; anything it cannot match is left for the
// model or the fallback message.
package grammar

import (
	"regexp"
	"strconv"

	"github.com/conversa-labs/user-agent/pkg/agent"
)

// Parser implements agent.Parser over the fixed command vocabulary.
type Parser struct{}

func New() *Parser {
	return &Parser{}
}

var (
	// Arabic glues the conjunction "و" onto the following word; split it
	// off known keywords so the keyword regexes can anchor on them.
	conjunctionRe = regexp.MustCompile(`(^|\s)و(اسم|بريد|ايميل|إيميل|باسورد|كلمة|كلمه|رقم|معرف)`)
	// Detach list punctuation from tokens. "!" stays attached: it may be
	// part of a password value.
	punctRe       = regexp.MustCompile(`[,،;؛؟?]`)
	trailingDotRe = regexp.MustCompile(`\.(\s|$)`)

	listVerbRe   = regexp.MustCompile(`(?i)(?:^|\s)(?:show|list|display|view|get|اعرض|أعرض|اظهر|أظهر|هات|قائمة)`)
	createVerbRe = regexp.MustCompile(`(?i)(?:^|\s)(?:create|add|register|اضف|أضف|انشئ|أنشئ|سجل|سجّل)`)
	updateVerbRe = regexp.MustCompile(`(?i)(?:^|\s)(?:update|change|modify|edit|set|حدث|حدّث|عدل|عدّل|غير|غيّر)`)
	deleteVerbRe = regexp.MustCompile(`(?i)(?:^|\s)(?:delete|remove|drop|احذف|امسح|ازل|أزل)`)

	userNounRe = regexp.MustCompile(`(?i)(?:^|\s)(?:users?|(?:ال)?مستخدم\S*|حساب\S*)`)
	lastWordRe = regexp.MustCompile(`(?i)(?:^|\s)(?:last|latest|recent|آخر|اخر|أحدث|احدث|الأخيرة|الاخيرة|أخيرة|اخيرة)`)
	pageKeyRe  = regexp.MustCompile(`(?i)(?:^|\s)(?:pages?|(?:ال)?صفحة)`)

	pageNumRe   = regexp.MustCompile(`(?i)(?:^|\s)(?:page|(?:ال)?صفحة)\s*(?:رقم\s*)?[:#]?\s*(\d+)`)
	perPageRe   = regexp.MustCompile(`(?i)(?:(\d+)\s*(?:per\s+page|لكل\s+صفحة|في\s+الصفحة|بالصفحة)|per\s+page\s*[:=]?\s*(\d+))`)
	bareDigitRe = regexp.MustCompile(`(?:^|\s)(\d+)(?:\s|$)`)

	nameRe     = regexp.MustCompile(`(?i)(?:^|\s)(?:named|name|call(?:ed)?|الاسم|اسمها|اسمه|اسم)\s*[:=]?\s*(?:to\s+|إلى\s+|الى\s+)?(\S+)`)
	emailRe    = regexp.MustCompile(`(?i)(?:^|\s)(?:e-?mail|mail|(?:ال)?بريد(?:ه|ها)?|(?:ال)?[اإ]يميل(?:ه|ها)?)\s*[:=]?\s*(?:to\s+|إلى\s+|الى\s+)?(\S+)`)
	passwordRe = regexp.MustCompile(`(?i)(?:^|\s)(?:password|passwd|pass|pwd|(?:ال)?باسورد|كلمة\s+(?:السر|المرور)|(?:ال)?كلمه)\s*[:=]?\s*(?:to\s+|إلى\s+|الى\s+)?(\S+)`)
	idRe       = regexp.MustCompile(`(?i)(?:^|\s)(?:id|(?:ال)?معرف|رقمه?)\s*[:#]?\s*(\d+)`)
)

// Parse tries each operation's trigger set in fixed priority order and
// returns the first fully satisfied command. Field values are single
// whitespace-delimited tokens; multi-word values are out of reach for the
// grammar and fall through to the model.
func (p *Parser) Parse(text string) (agent.Command, bool) {
	t := normalize(text)

	if cmd, ok := parseListLast(t); ok {
		return cmd, true
	}
	if cmd, ok := parseList(t); ok {
		return cmd, true
	}
	if cmd, ok := parseCreate(t); ok {
		return cmd, true
	}
	if cmd, ok := parseUpdate(t); ok {
		return cmd, true
	}
	if cmd, ok := parseDelete(t); ok {
		return cmd, true
	}
	return agent.Command{}, false
}

func normalize(text string) string {
	t := " " + text + " "
	t = conjunctionRe.ReplaceAllString(t, "${1}و ${2}")
	t = punctRe.ReplaceAllString(t, " $0 ")
	t = trailingDotRe.ReplaceAllString(t, " . $1")
	return t
}

// parseListLast handles "show me the last N users". A page keyword routes
// to parseList instead, so "the last page of users" is not misread here.
func parseListLast(t string) (agent.Command, bool) {
	if pageKeyRe.MatchString(t) {
		return agent.Command{}, false
	}
	if !listVerbRe.MatchString(t) || !lastWordRe.MatchString(t) || !userNounRe.MatchString(t) {
		return agent.Command{}, false
	}
	count := 5
	if m := bareDigitRe.FindStringSubmatch(t); m != nil {
		count = atoi(m[1], count)
	}
	return agent.Command{Tool: "listLastUsers", Args: map[string]any{"count": count}}, true
}

func parseList(t string) (agent.Command, bool) {
	if !listVerbRe.MatchString(t) || !userNounRe.MatchString(t) {
		return agent.Command{}, false
	}

	var page any
	switch {
	case pageKeyRe.MatchString(t) && lastWordRe.MatchString(t):
		page = "last"
	default:
		m := pageNumRe.FindStringSubmatch(t)
		if m == nil {
			return agent.Command{}, false
		}
		page = atoi(m[1], 1)
	}

	args := map[string]any{"page": page}
	if m := perPageRe.FindStringSubmatch(t); m != nil {
		raw := m[1]
		if raw == "" {
			raw = m[2]
		}
		args["perPage"] = atoi(raw, 10)
	}
	return agent.Command{Tool: "listUsers", Args: args}, true
}

func parseCreate(t string) (agent.Command, bool) {
	if !createVerbRe.MatchString(t) || !userNounRe.MatchString(t) {
		return agent.Command{}, false
	}
	name := capture(nameRe, t)
	email := capture(emailRe, t)
	password := capture(passwordRe, t)
	if name == "" || email == "" || password == "" {
		return agent.Command{}, false
	}
	return agent.Command{Tool: "createUser", Args: map[string]any{
		"name":     name,
		"email":    email,
		"password": password,
	}}, true
}

func parseUpdate(t string) (agent.Command, bool) {
	if !updateVerbRe.MatchString(t) || !userNounRe.MatchString(t) {
		return agent.Command{}, false
	}
	m := idRe.FindStringSubmatch(t)
	if m == nil {
		return agent.Command{}, false
	}
	args := map[string]any{"id": atoi(m[1], 0)}
	if v := capture(nameRe, t); v != "" {
		args["name"] = v
	}
	if v := capture(emailRe, t); v != "" {
		args["email"] = v
	}
	if v := capture(passwordRe, t); v != "" {
		args["password"] = v
	}
	if len(args) < 2 {
		return agent.Command{}, false
	}
	return agent.Command{Tool: "updateUser", Args: args}, true
}

func parseDelete(t string) (agent.Command, bool) {
	if !deleteVerbRe.MatchString(t) || !userNounRe.MatchString(t) {
		return agent.Command{}, false
	}
	m := idRe.FindStringSubmatch(t)
	if m == nil {
		return agent.Command{}, false
	}
	return agent.Command{Tool: "deleteUser", Args: map[string]any{"id": atoi(m[1], 0)}}, true
}

// capture returns the single-token value after a field keyword, skipping
// captures that are themselves digits glued to an id expression.
func capture(re *regexp.Regexp, t string) string {
	m := re.FindStringSubmatch(t)
	if m == nil {
		return ""
	}
	return m[1]
}

func atoi(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}

var _ agent.Parser = (*Parser)(nil)
