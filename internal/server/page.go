package server

// explorerPage is the embedded explorer client. The force-directed
// physics and canvas drawing belong to the force-graph library; this
// page only forwards pointer events over the websocket and repaints
// from the view/paint updates it gets back.
const explorerPage = `<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>PaperPulse Explorer</title>
  <script src="https://unpkg.com/force-graph@1/dist/force-graph.min.js"></script>
  <style>
    * { box-sizing: border-box; }
    body {
      font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, Helvetica, Arial, sans-serif;
      margin: 0;
      display: flex;
      height: 100vh;
      background: #f5f5f5;
    }
    #graph { flex: 1; }
    #sidebar {
      width: 320px;
      border-left: 1px solid #ddd;
      background: white;
      padding: 12px;
      overflow-y: auto;
      font-size: 13px;
    }
    #stats { color: #888; font-size: 11px; margin-bottom: 8px; }
    #search { width: 100%; padding: 6px; margin-bottom: 8px; }
    #results div { padding: 4px; cursor: pointer; }
    #results div:hover { background: #eef; }
    .filters label { display: block; margin: 2px 0; }
    #detail { margin-top: 12px; border-top: 1px solid #eee; padding-top: 8px; }
    #detail h3 { margin: 0 0 4px 0; font-size: 14px; }
    #detail .error { color: #c0392b; }
    #synthesis { margin-top: 12px; border-top: 1px solid #eee; padding-top: 8px; }
    #synthesis pre { white-space: pre-wrap; font-size: 12px; }
    button { margin: 2px 2px 2px 0; }
    .mode-on { background: #4A90D9; color: white; }
  </style>
</head>
<body>
  <div id="graph"></div>
  <div id="sidebar">
    <div id="stats"></div>
    <input id="search" placeholder="Search papers, authors, concepts..." autocomplete="off">
    <div id="results"></div>
    <div class="filters">
      <b>Nodes</b>
      <label><input type="checkbox" checked data-node-type="paper"> papers</label>
      <label><input type="checkbox" checked data-node-type="author"> authors</label>
      <label><input type="checkbox" checked data-node-type="concept"> concepts</label>
      <b>Edges</b>
      <label><input type="checkbox" checked data-edge-type="authored"> authored</label>
      <label><input type="checkbox" checked data-edge-type="involves"> involves</label>
      <label><input type="checkbox" checked data-edge-type="cites"> cites</label>
      <button id="reset">Reset filters</button>
    </div>
    <div>
      <button id="mode">Select for synthesis</button>
      <button id="synthesize">Synthesize</button>
    </div>
    <div id="detail"></div>
    <div id="synthesis"></div>
  </div>
  <script>
    (function() {
      const colors = { paper: '#4A90D9', author: '#27AE60', concept: '#E8923A' };
      let paint = { mode: 'inspect', synthesis: [], neighbors: [] };
      let nodeIndex = {};

      const ws = new WebSocket((location.protocol === 'https:' ? 'wss://' : 'ws://') + location.host + '/ws');
      const send = (msg) => { if (ws.readyState === WebSocket.OPEN) ws.send(JSON.stringify(msg)); };

      const graph = ForceGraph()(document.getElementById('graph'))
        .nodeId('id')
        .nodeLabel('label')
        .nodeColor(n => colors[n.type] || '#95A5A6')
        .nodeVal(n => {
          if (paint.inspected_id === n.id) return 8;
          if (paint.neighbors && paint.neighbors.includes(n.id)) return 6;
          return 4;
        })
        .nodeCanvasObjectMode(n => {
          if (paint.inspected_id === n.id) return 'before';
          if (paint.synthesis && paint.synthesis.includes(n.id)) return 'before';
          return undefined;
        })
        .nodeCanvasObject((n, ctx) => {
          // Ring the inspected node, halo the synthesis members.
          ctx.beginPath();
          ctx.arc(n.x, n.y, 9, 0, 2 * Math.PI);
          ctx.strokeStyle = paint.inspected_id === n.id ? '#ff6b6b' : '#8e44ad';
          ctx.lineWidth = 2;
          ctx.stroke();
        })
        .linkColor(l => {
          if (!paint.hovered_id) return '#bbb';
          const s = typeof l.source === 'object' ? l.source.id : l.source;
          const t = typeof l.target === 'object' ? l.target.id : l.target;
          return (s === paint.hovered_id || t === paint.hovered_id) ? '#ff6b6b' : '#eee';
        })
        .onNodeClick(n => send({ type: 'node_click', node_id: n.id }))
        .onNodeHover(n => send({ type: 'node_hover', node_id: n ? n.id : '' }))
        .onBackgroundClick(() => send({ type: 'background_click' }));

      ws.onmessage = (ev) => {
        const u = JSON.parse(ev.data);
        switch (u.type) {
        case 'view':
          nodeIndex = {};
          (u.nodes || []).forEach(n => { nodeIndex[n.id] = n; });
          if (u.paint) paint = u.paint;
          graph.graphData({
            nodes: u.nodes || [],
            links: (u.edges || []).map(e => ({ source: e.source, target: e.target, type: e.type }))
          });
          break;
        case 'paint':
          paint = u.paint || paint;
          updateModeButton();
          graph.nodeVal(graph.nodeVal()); // trigger repaint
          break;
        case 'camera': {
          const n = nodeIndex[u.camera.node_id];
          if (n && n.x !== undefined) {
            graph.centerAt(n.x, n.y, u.camera.duration_ms);
            graph.zoom(u.camera.zoom, u.camera.duration_ms);
          }
          break;
        }
        case 'detail':
          renderDetail(u.node_id, u.detail);
          break;
        case 'detail_error':
          document.getElementById('detail').innerHTML =
            '<div class="error">' + esc(u.message) + '</div>';
          break;
        case 'search_results':
          renderResults(u.results || []);
          break;
        case 'synthesis':
          document.getElementById('synthesis').innerHTML =
            '<b>Literature review</b><pre>' + esc(u.markdown) + '</pre>';
          break;
        case 'synthesis_error':
          document.getElementById('synthesis').innerHTML =
            '<div class="error">' + esc(u.message) + '</div>';
          break;
        case 'stats':
          document.getElementById('stats').textContent =
            u.stats.papers + ' papers · ' + u.stats.authors + ' authors · ' +
            u.stats.concepts + ' concepts · ' + u.stats.citations + ' citations';
          break;
        case 'error':
          console.warn('server:', u.message);
          break;
        }
      };

      function renderDetail(id, d) {
        let html = '<h3>' + esc(d.title || d.name || id) + '</h3>';
        if (d.published_date) html += '<div>' + esc(d.published_date) + '</div>';
        if (d.authors) html += '<div>' + d.authors.map(a => esc(a.name)).join(', ') + '</div>';
        if (d.concepts) html += '<div>' + d.concepts.map(c => esc(c.name)).join(', ') + '</div>';
        if (d.institutions) html += '<div>' + d.institutions.map(esc).join(', ') + '</div>';
        if (d.papers) html += '<div>' + d.papers.length + ' papers</div>';
        if (d.cites) html += '<div>cites ' + d.cites.length + ', cited by ' + (d.cited_by || []).length + '</div>';
        if (d.url) html += '<div><a href="' + esc(d.url) + '" target="_blank">open</a></div>';
        html += '<button onclick="hideNode(\'' + esc(id) + '\')">Hide node</button>';
        document.getElementById('detail').innerHTML = html;
      }

      function renderResults(results) {
        const el = document.getElementById('results');
        el.innerHTML = '';
        results.forEach(r => {
          const div = document.createElement('div');
          div.textContent = r.label + ' (' + r.type + ')';
          div.onclick = () => send({ type: 'select_result', result: r });
          el.appendChild(div);
        });
      }

      function updateModeButton() {
        const btn = document.getElementById('mode');
        const on = paint.mode === 'synthesize';
        btn.classList.toggle('mode-on', on);
        btn.textContent = on
          ? 'Selecting (' + (paint.synthesis || []).length + ') - click to exit'
          : 'Select for synthesis';
      }

      window.hideNode = (id) => send({ type: 'hide_node', node_id: id });

      document.getElementById('search').addEventListener('input', (e) => {
        send({ type: 'set_query', query: e.target.value });
      });
      document.querySelectorAll('[data-node-type]').forEach(cb => {
        cb.addEventListener('change', () =>
          send({ type: 'toggle_node_type', node_type: cb.dataset.nodeType }));
      });
      document.querySelectorAll('[data-edge-type]').forEach(cb => {
        cb.addEventListener('change', () =>
          send({ type: 'toggle_edge_type', edge_type: cb.dataset.edgeType }));
      });
      document.getElementById('reset').onclick = () => {
        send({ type: 'reset_filters' });
        document.querySelectorAll('input[type=checkbox]').forEach(cb => { cb.checked = true; });
      };
      document.getElementById('mode').onclick = () => {
        send({ type: 'set_mode', mode: paint.mode === 'synthesize' ? 'inspect' : 'synthesize' });
      };
      document.getElementById('synthesize').onclick = () => send({ type: 'synthesize' });

      function esc(str) {
        if (!str) return '';
        return String(str).replace(/&/g, '&amp;').replace(/</g, '&lt;')
                          .replace(/>/g, '&gt;').replace(/"/g, '&quot;');
      }
    })();
  </script>
</body>
</html>`
