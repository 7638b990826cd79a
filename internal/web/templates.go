package web

import (
	"bytes"
	"html/template"
	"net/http"

	"github.com/google/uuid"
	"github.com/jaminalder/tictactoe-ai/internal/app"
	"github.com/jaminalder/tictactoe-ai/internal/domain"
	"github.com/jaminalder/tictactoe-ai/internal/stats"
)

type templates struct {
	game  *template.Template
	board *template.Template
	index *template.Template
	stats *template.Template
	about *template.Template
}

func funcs() template.FuncMap {
	return template.FuncMap{
		"tierName": func(t domain.Tier) string { return t.String() },
	}
}

func loadTemplates() *templates {
	base := template.Must(template.New("base").Funcs(funcs()).Parse(`<!doctype html><html><head>
<meta charset="utf-8"/>
<title>Tic Tac Toe</title>
<script src="https://unpkg.com/htmx.org@1.9.12"></script>
<script src="https://unpkg.com/htmx.org/dist/ext/sse.js"></script>
</head><body>{{template "content" .}}</body></html>`))
	// Define the board template within the same set so game can include it
	template.Must(base.New("board").Parse(boardTemplate))
	index := template.Must(template.Must(base.Clone()).New("content").Parse(`<h1>Tic Tac Toe</h1>
<form action="/game" method="post">
  <select name="tier">{{range .Tiers}}<option value="{{tierName .}}"{{if eq . $.Default}} selected{{end}}>{{tierName .}}</option>{{end}}</select>
  <button>New game</button>
</form>
<a href="/stats">Statistics</a> <a href="/about">About</a>`))
	game := template.Must(template.Must(base.Clone()).New("content").Parse(`
<h1>Tic Tac Toe</h1>
<div hx-ext="sse" sse-connect="/game/{{.ID}}/events">
  <div sse-swap="board">{{template "board" .}}</div>
</div>
<a href="/stats">Statistics</a>`))
	// Standalone board template used for fragment rendering
	board := template.Must(template.New("board_only").Funcs(funcs()).Parse(boardTemplate))
	statsPage := template.Must(template.Must(base.Clone()).New("content").Parse(`<h1>Statistics</h1>
<table>
  <tr><th></th><th>Wins</th><th>Losses</th><th>Draws</th></tr>
  {{range .}}<tr><th>{{.Tier}}</th><td>{{.Wins}}</td><td>{{.Losses}}</td><td>{{.Draws}}</td></tr>{{end}}
</table>
<form action="/stats/reset" method="post" onsubmit="return confirm('Are you sure you want to reset the statistics?')"><button>Reset statistics</button></form>
<a href="/">New game</a>`))
	about := template.Must(template.Must(base.Clone()).New("content").Parse(`<h1>About this project</h1>
<p>Welcome to the Tic Tac Toe game.</p>
<p>You play X and always move first. The computer plays O at one of three difficulties:</p>
<ul>
  {{range .}}<li><b>{{tierName .}}</b></li>{{end}}
</ul>
<p>Easy picks a random free cell. Medium takes a winning cell, then blocks yours, and otherwise plays at random. Hard searches every continuation and never loses.</p>
<a href="/">New game</a> <a href="/stats">Statistics</a>`))
	return &templates{game: game, board: board, index: index, stats: statsPage, about: about}
}

func renderTemplate(t *template.Template, name string, data any) []byte {
	var buf bytes.Buffer
	if name == "" {
		_ = t.Execute(&buf, data)
	} else {
		_ = t.ExecuteTemplate(&buf, name, data)
	}
	return buf.Bytes()
}

const boardTemplate = `
<div id="board">
  <p class="status">{{.Status}} <small>({{.Tier}})</small></p>
  {{if .Error}}
  <div class="alert">{{.Error}}</div>
  {{end}}
  {{range .Rows}}
  <div class="row">
    {{range .}}
      <form hx-post="/game/{{$.ID}}/play" hx-target="#board" hx-swap="outerHTML" method="post">
        <input type="hidden" name="cell" value="{{.Index}}">
        <button type="submit"{{if not .Playable}} disabled{{end}}>{{.Symbol}}</button>
      </form>
    {{end}}
  </div>
  {{end}}
  <form hx-post="/game/{{.ID}}/reset" hx-target="#board" hx-swap="outerHTML" method="post"><button>Reset game</button></form>
  <form hx-post="/game/{{.ID}}/difficulty" hx-target="#board" hx-swap="outerHTML" method="post">
    <select name="tier">{{range .Tiers}}<option value="{{tierName .}}"{{if eq . $.TierValue}} selected{{end}}>{{tierName .}}</option>{{end}}</select>
    <button>Change difficulty</button>
  </form>
</div>
`

type cellView struct {
	Index    int
	Symbol   string
	Playable bool
}

type boardView struct {
	ID        string
	Tier      string
	TierValue domain.Tier
	Tiers     []domain.Tier
	Rows      [3][3]cellView
	Status    string
	Error     string
}

func statusText(g domain.Game) string {
	kind, over := stats.KindFor(g.Outcome, app.Human)
	if !over {
		return "Your turn"
	}
	switch kind {
	case stats.Win:
		return "Congratulations! You won the game."
	case stats.Loss:
		return "You lost the game. Better luck next time!"
	default:
		return "It's a draw!"
	}
}

func newBoardView(gs app.GameState, errMsg string) boardView {
	v := boardView{
		ID:        gs.ID,
		Tier:      gs.Tier.String(),
		TierValue: gs.Tier,
		Tiers:     domain.Tiers,
		Status:    statusText(gs.Game),
		Error:     errMsg,
	}
	for i, c := range gs.Game.Board {
		v.Rows[i/3][i%3] = cellView{
			Index:    i,
			Symbol:   c.String(),
			Playable: c == domain.Empty && !gs.Game.Over(),
		}
	}
	return v
}

type statsRow struct {
	Tier string
	stats.Record
}

func statsRows(s stats.Statistics) []statsRow {
	rows := make([]statsRow, 0, len(domain.Tiers))
	for _, t := range domain.Tiers {
		rows = append(rows, statsRow{Tier: t.String(), Record: s[t]})
	}
	return rows
}

const playerCookie = "player_id"

// Helper to set cookie
func ensurePlayerCookie(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(playerCookie); err == nil && app.IsValidPlayerID(c.Value) {
		return c.Value
	}
	// Generate UUIDv4 for player ID
	v := uuid.NewString()
	http.SetCookie(w, &http.Cookie{Name: playerCookie, Value: v, Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode})
	return v
}
