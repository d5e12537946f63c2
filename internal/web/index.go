package web

const indexHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <title>Cryptofolio</title>
  <style>
    body { margin:0; padding:2rem; background:#ffffff; color:#111111; font-family:'Space Mono','JetBrains Mono',monospace; }
    h1 { font-size:1.1rem; text-transform:uppercase; letter-spacing:.2em; }
    #panel { border:3px solid #111; padding:1.5rem; box-shadow:10px 10px 0 rgba(0,0,0,.15); max-width:960px; }
    table { width:100%; border-collapse:collapse; font-size:.8rem; margin-top:1rem; }
    th, td { border-bottom:1px solid rgba(0,0,0,.15); padding:.4rem .6rem; text-align:right; }
    th:first-child, td:first-child { text-align:left; }
    .metrics { display:flex; gap:2rem; flex-wrap:wrap; margin-top:1rem; font-size:.8rem; }
    .metric b { display:block; font-size:1.1rem; }
    .stale { color:#9c9c9c; }
    .loss { color:#b00020; }
    .profit { color:#1b7a3d; }
  </style>
</head>
<body>
  <div id="panel">
    <h1>Cryptofolio</h1>
    <div class="metrics">
      <div class="metric">Total value<b id="total">–</b></div>
      <div class="metric">P/L<b id="pl">–</b></div>
      <div class="metric">Risk score<b id="risk">–</b></div>
      <div class="metric">Diversification<b id="div">–</b></div>
      <div class="metric">VaR 95%<b id="var">–</b></div>
    </div>
    <table>
      <thead><tr><th>Asset</th><th>Amount</th><th>Price</th><th>Value</th><th>P/L</th><th>24h</th></tr></thead>
      <tbody id="rows"></tbody>
    </table>
  </div>
  <script>
    function render(record) {
      const snap = record.snapshot, risk = record.risk;
      document.getElementById('total').textContent = '$' + Number(snap.total_value).toFixed(2);
      const pl = document.getElementById('pl');
      pl.textContent = '$' + Number(snap.total_pl).toFixed(2);
      pl.className = Number(snap.total_pl) < 0 ? 'loss' : 'profit';
      document.getElementById('risk').textContent = risk.risk_score.toFixed(1) + '/100';
      document.getElementById('div').textContent = risk.diversification_score.toFixed(1) + '/100';
      document.getElementById('var').textContent = '$' + Number(risk.value_at_risk_95).toFixed(2);
      const rows = document.getElementById('rows');
      rows.innerHTML = '';
      for (const a of snap.assets || []) {
        const tr = document.createElement('tr');
        if (a.stale) tr.className = 'stale';
        tr.innerHTML = '<td>' + (a.name || a.asset_id) + (a.stale ? ' (stale)' : '') + '</td>' +
          '<td>' + Number(a.amount).toFixed(4) + '</td>' +
          '<td>$' + Number(a.price).toFixed(2) + '</td>' +
          '<td>$' + Number(a.market_value).toFixed(2) + '</td>' +
          '<td class="' + (Number(a.unrealized_pl) < 0 ? 'loss' : 'profit') + '">$' + Number(a.unrealized_pl).toFixed(2) + '</td>' +
          '<td>' + Number(a.change_24h).toFixed(2) + '%</td>';
        rows.appendChild(tr);
      }
    }

    fetch('/portfolio').then(r => r.json()).then(render).catch(() => {});

    const source = new EventSource('/portfolio/stream');
    source.addEventListener('valuation', e => render(JSON.parse(e.data)));
  </script>
</body>
</html>`
