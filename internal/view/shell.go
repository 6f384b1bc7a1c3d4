package view

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

// Shell is the static page served to browsers. It holds the layout and a
// small applier that mirrors server patches onto the DOM and sends user
// actions back over the socket.
func Shell(title string, overviewFields []string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if err := write(w, shellHead(templ.EscapeString(title))); err != nil {
			return err
		}
		if err := write(w, shellBodyStart); err != nil {
			return err
		}
		for _, field := range overviewFields {
			id := templ.EscapeString(OverviewTarget(field))
			label := templ.EscapeString(field)
			if err := write(w, `<dt>`, label, `</dt><dd id="`, id, `"></dd>`); err != nil {
				return err
			}
		}
		return write(w, shellBodyEnd, shellScript, `</body></html>`)
	})
}

func shellHead(title string) string {
	return `<!doctype html><html><head><meta charset="utf-8"><title>` + title + `</title>` +
		`<script src="https://cdn.plot.ly/plotly-2.35.2.min.js"></script>` +
		`<style>[hidden]{display:none!important}.tab-content{display:none}.tab-content.active{display:block}` +
		`.tab-button.active{font-weight:bold}#mySidebar{overflow-x:hidden;transition:width .3s}#toggleArrow.open{transform:rotate(180deg)}` +
		`#match-graph-container{width:100%;height:480px}</style></head>`
}

const shellBodyStart = `<body>
<div id="mySidebar"><div id="selectedItem" data-action="toggle_competitions"></div><div id="dropdown"></div></div>
<span id="toggleArrow" data-action="toggle_sidebar">&#9654;</span>
<div id="main">
<div id="selectedItemMatches" data-action="toggle_matches"></div><div id="matchDropdown"></div>
<div id="match-graph-container"></div>
<div class="tabs">
<button id="tab-overview" class="tab-button" data-action="activate_tab" data-value="overview"></button>
<button id="tab-team1" class="tab-button" data-action="activate_tab" data-value="team1"></button>
<button id="tab-team2" class="tab-button" data-action="activate_tab" data-value="team2"></button>
</div>
<div id="team1" class="tab-content"><div id="team1-squad"></div></div>
<div id="team2" class="tab-content"><div id="team2-squad"></div></div>
<div id="overview" class="tab-content"><dl>`

const shellBodyEnd = `</dl></div></div>`

const shellScript = `<script>
(function () {
  var proto = location.protocol === "https:" ? "wss://" : "ws://";
  var ws = new WebSocket(proto + location.host + "/ws");
  function el(id) { return document.getElementById(id); }
  function owned(n) { return n.__attrs || (n.__attrs = {}); }
  function apply(p) {
    var n = el(p.target); if (!n) { return; }
    switch (p.op) {
      case "text": n.textContent = p.value; break;
      case "html": n.innerHTML = p.value; break;
      case "class_add": n.classList.add(p.value); break;
      case "class_remove": n.classList.remove(p.value); break;
      case "hidden": n.hidden = !!p.value; break;
      case "attr": n.setAttribute(p.name, p.value); owned(n)[p.name] = true; break;
      case "style": n.style[p.name] = p.value; break;
      case "chart": if (window.Plotly) { Plotly.react(n, p.value.data, p.value.layout); } break;
    }
  }
  function reset(snap) {
    snap.elements.forEach(function (e) {
      var n = el(e.id); if (!n) { return; }
      var attrs = e.attrs || {}, styles = e.styles || {}, prev = owned(n);
      if (e.chart && window.Plotly) { Plotly.react(n, e.chart.data, e.chart.layout); }
      else if (e.html) { n.innerHTML = e.html; } else { n.textContent = e.text || ""; }
      n.className = (e.classes || []).join(" ");
      n.hidden = !!e.hidden;
      Object.keys(prev).forEach(function (k) { if (!(k in attrs)) { n.removeAttribute(k); } });
      n.__attrs = {};
      Object.keys(attrs).forEach(function (k) { n.setAttribute(k, attrs[k]); n.__attrs[k] = true; });
      n.style.cssText = "";
      Object.keys(styles).forEach(function (k) { n.style[k] = styles[k]; });
    });
  }
  function send(a) { if (ws.readyState === 1) { ws.send(JSON.stringify(a)); } }
  function resize() {
    var g = el("match-graph-container");
    send({type: "resize", target: g.id, width: g.clientWidth, height: g.clientHeight});
  }
  ws.onopen = resize;
  ws.onmessage = function (m) {
    var msg = JSON.parse(m.data);
    if (msg.type === "snapshot") { reset(msg.snapshot); } else if (msg.type === "patch") { apply(msg.patch); }
  };
  document.addEventListener("click", function (ev) {
    var t = ev.target.closest("[data-action]"); if (!t) { return; }
    send({type: t.dataset.action, value: t.dataset.value || "", group: t.dataset.group || ""});
  });
  if (window.ResizeObserver) { new ResizeObserver(resize).observe(el("match-graph-container")); }
})();
</script>`
