package webui

import (
	"html/template"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/minpaixinyu/minpai/internal/city"
)

// pages holds every page template. They share the header/footer pair and
// load their data from the gateway JSON endpoints.
var pages = template.Must(template.New("pages").Parse(pagesHTML))

// pageData is the payload every page template receives.
type pageData struct {
	Title string
	City  *cityResponse // set on city detail pages only
	Tabs  []string
}

func renderPage(w http.ResponseWriter, name string, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := pages.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("webui: rendering %s: %v", name, err)
	}
}

// servePage builds the handler for a static page template.
func (s *Server) servePage(name, title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		renderPage(w, name, pageData{Title: title})
	}
}

var cityTabTitles = []string{"文化", "景点", "美食", "历史"}

// serveCityPage renders the detail page of one interactive city, by Chinese
// or latin name. Other regions have no page.
func (s *Server) serveCityPage(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	info, ok := city.Lookup(name)
	if !ok {
		info, ok = city.LookupEn(name)
	}
	if !ok {
		http.NotFound(w, r)
		return
	}
	renderPage(w, "city", pageData{
		Title: info.Name,
		City: &cityResponse{
			Name:        info.Name,
			EnName:      info.EnName,
			Subtitle:    info.Subtitle,
			Description: info.Description,
		},
		Tabs: cityTabTitles,
	})
}

const pagesHTML = `
{{define "header"}}<!DOCTYPE html>
<html lang="zh-CN">
<head>
<meta charset="utf-8">
<title>{{.Title}} · 闽派新语</title>
<style>
  body { font-family: "PingFang SC", "Microsoft YaHei", sans-serif; margin: 0; background: #faf6ef; color: #3b2f23; }
  header { background: #8B7355; color: #fff; padding: 14px 24px; display: flex; justify-content: space-between; align-items: center; }
  header h1 { font-size: 20px; margin: 0; }
  header nav a { color: #f3ead9; margin-left: 14px; text-decoration: none; font-size: 14px; }
  #nav-user { font-size: 14px; }
  main { max-width: 860px; margin: 24px auto; padding: 0 16px; }
  section { background: #fff; border: 1px solid #e4d9c6; border-radius: 8px; padding: 16px; margin-bottom: 24px; }
  section h2 { margin-top: 0; font-size: 16px; border-bottom: 1px solid #eee3d0; padding-bottom: 8px; }
  button { background: #8B7355; color: #fff; border: none; border-radius: 6px; padding: 8px 14px; cursor: pointer; }
  .explored { color: #2ed573; font-weight: bold; }
  ul.plain { list-style: none; padding: 0; margin: 0; }
  ul.plain li { padding: 8px 4px; border-bottom: 1px dashed #eee3d0; }
</style>
</head>
<body>
<header>
  <h1>闽派新语</h1>
  <nav>
    <a href="/">AI 助手</a>
    <a href="/map">地图</a>
    <a href="/quiz">答题</a>
    <a href="/ebook">电子书</a>
    <a href="/user-center">用户中心</a>
    <span id="nav-user">未登录</span>
  </nav>
</header>
<main>
<script>
fetch("/api/session").then(r => r.json()).then(s => {
  document.getElementById("nav-user").textContent = s.signed_in ? s.username : "未登录";
});
</script>
{{end}}

{{define "footer"}}</main></body></html>{{end}}

{{define "home"}}{{template "header" .}}
<section>
  <h2>AI 文化助手</h2>
  <div id="chat-log" style="height:280px;overflow-y:auto;border:1px solid #eee3d0;border-radius:6px;padding:8px;margin-bottom:8px;"></div>
  <form id="chat-form" style="display:flex;gap:8px;">
    <input id="chat-input" placeholder="请输入您的问题…" autocomplete="off" style="flex:1;padding:8px;border:1px solid #d8c9ae;border-radius:6px;">
    <button type="submit">发送</button>
  </form>
</section>
<script>
const log = document.getElementById("chat-log");
const ws = new WebSocket("ws://" + location.host + "/ws/chat");
function appendTurn(cls, html) {
  const div = document.createElement("div");
  div.style.margin = "6px 0";
  if (cls === "user") { div.style.textAlign = "right"; div.textContent = html; }
  else { div.innerHTML = html; }
  log.appendChild(div);
  log.scrollTop = log.scrollHeight;
}
ws.onmessage = (ev) => {
  const msg = JSON.parse(ev.data);
  if (msg.type === "response") appendTurn("ai", msg.html || msg.content);
  else if (msg.type === "error") appendTurn("ai", "（" + msg.content + "）");
};
document.getElementById("chat-form").addEventListener("submit", (ev) => {
  ev.preventDefault();
  const input = document.getElementById("chat-input");
  const text = input.value.trim();
  if (!text) return;
  appendTurn("user", text);
  ws.send(JSON.stringify({ type: "message", content: text }));
  input.value = "";
});
</script>
{{template "footer" .}}{{end}}

{{define "map"}}{{template "header" .}}
<section>
  <h2>福建探索地图</h2>
  <ul class="plain" id="region-list"></ul>
</section>
<script>
fetch("/api/map").then(r => r.json()).then(regions => {
  const list = document.getElementById("region-list");
  regions.forEach(rg => {
    const li = document.createElement("li");
    if (rg.interactive) {
      const a = document.createElement("a");
      a.href = "/city/" + encodeURIComponent(rg.name);
      a.textContent = rg.name;
      li.appendChild(a);
    } else {
      li.textContent = rg.name;
    }
    if (rg.explored) { li.classList.add("explored"); li.append("（已探索）"); }
    list.appendChild(li);
  });
}).catch(() => {
  document.getElementById("region-list").textContent = "地图数据加载失败。";
});
</script>
{{template "footer" .}}{{end}}

{{define "quiz"}}{{template "header" .}}
<section>
  <h2>知识问答</h2>
  <p>题库预览；完整的练习与考试流程请使用终端命令 <code>minpai quiz</code>。</p>
  <ul class="plain" id="question-list"></ul>
</section>
<script>
fetch("/api/questions").then(r => r.json()).then(data => {
  const list = document.getElementById("question-list");
  (data.questions || []).forEach((q, i) => {
    const li = document.createElement("li");
    li.textContent = (i + 1) + ". " + q.question + "（" + q.score + " 分）";
    list.appendChild(li);
  });
  if (!data.questions || data.questions.length === 0) {
    list.textContent = "题库暂时为空。";
  }
});
</script>
{{template "footer" .}}{{end}}

{{define "city"}}{{template "header" .}}
<section>
  <h2>{{.City.Name}} · {{.City.Subtitle}}</h2>
  <p>{{range .Tabs}}<span style="margin-right:12px;">{{.}}</span>{{end}}</p>
  <p>{{.City.Description}}</p>
  <button id="mark-btn">标记为已探索</button>
</section>
<script>
document.getElementById("mark-btn").addEventListener("click", () => {
  fetch("/api/explore/" + encodeURIComponent({{.City.Name}}), { method: "POST" })
    .then(r => r.json())
    .then(res => {
      const btn = document.getElementById("mark-btn");
      if (res.success) { btn.textContent = "已探索 ★"; btn.disabled = true; }
      else { alert(res.error || "标记失败"); }
    });
});
</script>
{{template "footer" .}}{{end}}

{{define "ebook"}}{{template "header" .}}
<section>
  <h2>电子书</h2>
  <p>电子书在终端中阅读：<code>minpai ebook 文件.pdf</code>。阅读位置会自动保存为书签。</p>
</section>
{{template "footer" .}}{{end}}

{{define "user-center"}}{{template "header" .}}
<section>
  <h2>用户中心</h2>
  <p>头像、密码与账号管理请使用终端命令 <code>minpai account</code>。</p>
  <h2>探索进度</h2>
  <ul class="plain" id="explored-list"></ul>
</section>
<script>
fetch("/api/explorations").then(r => r.json()).then(data => {
  const list = document.getElementById("explored-list");
  (data.explorations || []).forEach(name => {
    const li = document.createElement("li");
    li.textContent = name;
    li.classList.add("explored");
    list.appendChild(li);
  });
  if (!data.explorations || data.explorations.length === 0) {
    list.textContent = "还没有探索记录。";
  }
}).catch(() => {
  document.getElementById("explored-list").textContent = "请先登录。";
});
</script>
{{template "footer" .}}{{end}}
`
