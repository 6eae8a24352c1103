package server

import (
	"fmt"
	"html/template"
	"io"

	"github.com/rickgao/coin-ticker/internal/program"
	"github.com/rickgao/coin-ticker/internal/view"
)

var pageTemplate = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Symbol}} {{.Currency}} ticker</title>
<style>
body { font-family: monospace; background: #111; color: #eee; }
.ticker-widget { margin: 4em auto; width: max-content; font-size: 3em; }
.last-updated { font-size: 0.3em; color: #888; margin: 0 0 0.5em; }
.ticker { display: flex; align-items: flex-start; }
.dollar-sign { margin-right: 0.2em; }
.digit-box { height: 1em; line-height: 1em; overflow: hidden; }
.digit-column { display: flex; }
.digit { height: 1em; text-align: center; }
</style>
</head>
<body>
<div id="widget">{{.Widget}}</div>
<script>
(function () {
  var widget = document.getElementById("widget");
  function apply(html) {
    var next = document.createElement("div");
    next.innerHTML = html;
    var cols = widget.querySelectorAll(".digit-column");
    var nextCols = next.querySelectorAll(".digit-column");
    if (cols.length !== nextCols.length) {
      widget.innerHTML = html;
      return;
    }
    for (var i = 0; i < cols.length; i++) {
      cols[i].setAttribute("style", nextCols[i].getAttribute("style"));
    }
    var stamp = widget.querySelector(".last-updated");
    var nextStamp = next.querySelector(".last-updated");
    if (stamp && nextStamp) {
      stamp.textContent = nextStamp.textContent;
    }
  }
  function connect() {
    var proto = location.protocol === "https:" ? "wss://" : "ws://";
    var ws = new WebSocket(proto + location.host + "/ws");
    ws.onmessage = function (ev) {
      var msg = JSON.parse(ev.data);
      if (msg.type === "frame") {
        apply(msg.html);
      }
    };
    ws.onclose = function () {
      setTimeout(connect, 5000);
    };
  }
  connect();
})();
</script>
</body>
</html>
`))

type pageData struct {
	Symbol   string
	Currency string
	Widget   template.HTML
}

func renderPage(w io.Writer, fr program.Frame) error {
	widget, err := view.RenderString(fr.View)
	if err != nil {
		return fmt.Errorf("render widget: %w", err)
	}

	data := pageData{
		Symbol:   fr.Snapshot.Symbol,
		Currency: fr.Snapshot.Currency,
		// Markup comes from view.RenderString, which escapes all text nodes.
		Widget: template.HTML(widget),
	}
	if err := pageTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("execute page template: %w", err)
	}
	return nil
}
