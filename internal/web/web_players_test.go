package web_test

import (
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/scorekeeper/internal/model"
	"github.com/mcoot/scorekeeper/internal/tables"
	"github.com/mcoot/scorekeeper/internal/testutil"
)

// newPlayersServer signs in and stores seven players in total
func newPlayersServer(t *testing.T) *webTestServer {
	t.Helper()
	ts := newWebTestServer(t)
	ts.login()
	ts.addPlayers("bob", "carol", "dave", "erin", "frank", "gina")
	return ts
}

func TestPlayersFirstPage(t *testing.T) {
	ts := newPlayersServer(t)

	doc := ts.page("/players")

	assert.Equal(t, []string{"alice", "bob", "carol", "dave", "erin"}, columnText(doc, "username"))
	assertContainsText(t, doc, "p.summary", "Total 7 · page 1 of 2")
	assertContainsElement(t, doc, "nav.pagination a[rel='next']")
	assertNotContainsElement(t, doc, "nav.pagination a[rel='prev']")
	assertContainsText(t, doc, "th.col-id .sort", "▲")
}

func TestPlayersSecondPageIsPartial(t *testing.T) {
	ts := newPlayersServer(t)

	doc := ts.page("/players?page=2")

	assert.Equal(t, []string{"frank", "gina"}, columnText(doc, "username"))
	assertContainsElement(t, doc, "nav.pagination a[rel='prev']")
	assertNotContainsElement(t, doc, "nav.pagination a[rel='next']")
}

func TestPlayersPageBeyondLastIsEmpty(t *testing.T) {
	ts := newPlayersServer(t)

	doc := ts.page("/players?page=9")

	assert.Empty(t, columnText(doc, "username"))
	assertContainsElement(t, doc, "tr.empty")
	assertContainsText(t, doc, "p.summary", "page 9 of 2")

	prev, ok := doc.Find("nav.pagination a[rel='prev']").Attr("href")
	require.True(t, ok)
	assert.Contains(t, prev, "page=2")
}

func TestPlayersStateIsRememberedPerSession(t *testing.T) {
	ts := newPlayersServer(t)

	ts.page("/players?page=2&sort=username&dir=desc")
	doc := ts.page("/players")

	assert.Equal(t, []string{"bob", "alice"}, columnText(doc, "username"))

	state, ok, err := ts.app.Storage.GetViewState(t.Context(), ts.sessionID(), tables.PlayersTable)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, state.Page)
	assert.Equal(t, "username", state.SortField)
}

func TestPlayersFilterResetsPage(t *testing.T) {
	ts := newPlayersServer(t)
	ts.page("/players?page=2")

	doc := ts.page("/players?q=A&page=2")

	assert.Equal(t, []string{"alice", "carol", "dave", "frank", "gina"}, columnText(doc, "username"))
	assertContainsText(t, doc, "p.summary", "Total 5 · page 1 of 1")
	assert.Equal(t, "A", doc.Find("form.filter input[name='q']").AttrOr("value", ""))
}

func TestPlayersFilterIsCaseInsensitiveSubstring(t *testing.T) {
	ts := newPlayersServer(t)

	doc := ts.page("/players?q=RI")

	assert.Equal(t, []string{"erin"}, columnText(doc, "username"))
}

func TestPlayersClearingFilterResetsPage(t *testing.T) {
	ts := newPlayersServer(t)
	ts.page("/players?q=a")
	ts.page("/players?page=1&size=2")
	ts.page("/players?page=2")

	doc := ts.page("/players?q=")

	assertContainsText(t, doc, "p.summary", "Total 7 · page 1 of 4")
}

func TestPlayersPageSizeResetsPage(t *testing.T) {
	ts := newPlayersServer(t)
	ts.page("/players?page=2")

	doc := ts.page("/players?size=10&page=2")

	assert.Len(t, columnText(doc, "username"), 7)
	assertContainsText(t, doc, "p.summary", "page 1 of 1")
	assertContainsText(t, doc, "p.page-size .current", "10")
}

func TestPlayersSortDescending(t *testing.T) {
	ts := newPlayersServer(t)

	doc := ts.page("/players?sort=username&dir=desc")

	assert.Equal(t, []string{"gina", "frank", "erin", "dave", "carol"}, columnText(doc, "username"))
	assertContainsText(t, doc, "th.col-username .sort", "▼")
}

func TestPlayersSortLinkTogglesDirection(t *testing.T) {
	ts := newPlayersServer(t)

	doc := ts.page("/players")

	href, ok := doc.Find("th.col-id a").Attr("href")
	require.True(t, ok)
	u, err := url.Parse(href)
	require.NoError(t, err)
	assert.Equal(t, "desc", u.Query().Get("dir"))

	href, ok = doc.Find("th.col-firstname a").Attr("href")
	require.True(t, ok)
	u, err = url.Parse(href)
	require.NoError(t, err)
	assert.Equal(t, "firstname", u.Query().Get("sort"))
	assert.Equal(t, "asc", u.Query().Get("dir"))
}

func TestPlayersColumnsDoNotChangeResults(t *testing.T) {
	ts := newPlayersServer(t)

	doc := ts.page("/players?cols=&cols=username&cols=lastname")

	var headers []string
	doc.Find("thead th").Each(func(_ int, s *goquery.Selection) {
		headers = append(headers, strings.TrimSpace(s.Text()))
	})
	assert.Equal(t, []string{"ID ▲", "Username", "Last name", "Actions"}, headers)
	assertNotContainsElement(t, doc, "td.col-firstname")

	assert.Equal(t, []string{"alice", "bob", "carol", "dave", "erin"}, columnText(doc, "username"))
	assertContainsText(t, doc, "p.summary", "Total 7 · page 1 of 2")

	next, _ := doc.Find("nav.pagination a[rel='next']").Attr("href")
	assert.Contains(t, next, "cols=username%2Clastname")
}

func TestPlayersUsernameColumnCanBeHidden(t *testing.T) {
	ts := newPlayersServer(t)

	doc := ts.page("/players?cols=lastname")

	assertNotContainsElement(t, doc, "th.col-username")
	assertContainsElement(t, doc, "th.col-id")
	assertContainsElement(t, doc, "th.col-actions")
	assert.Len(t, columnText(doc, "id"), 5)
}

func TestCreatePlayer(t *testing.T) {
	ts := newPlayersServer(t)

	form := url.Values{"username": {"hank"}, "firstname": {"Hank"}, "password": {"pw"}}
	rr := ts.post("/players", form)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/players", rr.Header().Get("Location"))
	assert.True(t, slices.ContainsFunc(ts.backend.Players(), func(p model.Player) bool {
		return p.Username == "hank" && p.FirstName == "Hank"
	}))

	doc := parseHTML(ts.followRedirect(rr).Body)
	assertContainsText(t, doc, ".flash-success", "Player hank created")
	assertContainsText(t, doc, "p.summary", "Total 8")
}

func TestCreatePlayerShowsBackendMessage(t *testing.T) {
	ts := newPlayersServer(t)

	rr := ts.post("/players", url.Values{"username": {""}})

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	doc := parseHTML(ts.followRedirect(rr).Body)
	assertContainsText(t, doc, ".flash-error", "username should not be empty")
	assert.Len(t, ts.backend.Players(), 7)
}

func TestUpdatePlayer(t *testing.T) {
	ts := newWebTestServer(t)
	ts.login()
	bob := ts.addPlayers("bob")[0]

	rr := ts.post("/players/"+strconv.Itoa(int(bob.ID)), url.Values{"firstname": {"Robert"}, "username": {""}})

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	players := ts.backend.Players()
	i := slices.IndexFunc(players, func(p model.Player) bool { return p.ID == bob.ID })
	require.GreaterOrEqual(t, i, 0)
	assert.Equal(t, "Robert", players[i].FirstName)
	assert.Equal(t, "bob", players[i].Username, "empty fields are left unchanged")
}

func TestDeletePlayer(t *testing.T) {
	ts := newWebTestServer(t)
	ts.login()
	bob := ts.addPlayers("bob")[0]

	rr := ts.post("/players/"+strconv.Itoa(int(bob.ID))+"/delete", nil)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/players", rr.Header().Get("Location"))

	doc := parseHTML(ts.followRedirect(rr).Body)
	assertContainsText(t, doc, ".flash-success", "Player bob deleted")
	assert.Equal(t, []string{"alice"}, columnText(doc, "username"))
}

func TestDeletePlayerFailureDoesNotRefresh(t *testing.T) {
	ts := newWebTestServer(t)
	ts.login()
	bob := ts.addPlayers("bob")[0]
	path := "/users/" + strconv.Itoa(int(bob.ID))
	ts.backend.Fail(http.MethodDelete, path, testutil.Failure{StatusCode: http.StatusConflict, Message: "Player has matches"})

	before := len(ts.backend.Requests())
	rr := ts.post("/players/"+strconv.Itoa(int(bob.ID))+"/delete", nil)

	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, []string{"DELETE " + path}, ts.backend.Requests()[before:], "list is not refetched")

	doc := parseHTML(ts.followRedirect(rr).Body)
	assertContainsText(t, doc, ".flash-error", "Player has matches")
	assert.Equal(t, []string{"alice", "bob"}, columnText(doc, "username"))
}

func TestPlayersBackendErrorIsShown(t *testing.T) {
	ts := newWebTestServer(t)
	ts.login()
	ts.backend.Fail(http.MethodGet, "/users", testutil.Failure{TransportStatus: http.StatusOK, StatusCode: 500, Message: "database offline"})

	doc := ts.page("/players")

	assertContainsText(t, doc, "p.error", "database offline")
	assertContainsElement(t, doc, "tr.empty")
	assert.True(t, ts.cookies.hasSession(), "error payloads keep the session")
}
