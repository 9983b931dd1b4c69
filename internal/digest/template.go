package digest

import "html/template"

var htmlTmpl = template.Must(template.New("digest").Funcs(template.FuncMap{
	"scoreBadge":  scoreBadge,
	"sourceBadge": sourceBadge,
}).Parse(digestHTML))

// Table-based layout with inline styles; email clients ignore stylesheets.
const digestHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <meta name="viewport" content="width=device-width,initial-scale=1.0">
  <title>RFP Scout Daily Digest</title>
</head>
<body style="margin:0;padding:0;background:#f1f5f9;font-family:-apple-system,BlinkMacSystemFont,'Segoe UI',Roboto,sans-serif;">
  <div style="max-width:680px;margin:32px auto 48px;background:white;border-radius:14px;overflow:hidden;box-shadow:0 4px 24px rgba(0,0,0,0.08);">

    <div style="background:linear-gradient(135deg,#1e3a8a 0%,#2563eb 100%);padding:36px 32px 28px;">
      <p style="margin:0 0 6px;font-size:11px;font-weight:700;color:#93c5fd;text-transform:uppercase;letter-spacing:0.12em;">
        Daily Digest &mdash; {{.Date}}
      </p>
      <h1 style="margin:0 0 6px;font-size:26px;font-weight:800;color:white;letter-spacing:-0.02em;">
        RFP Scout
      </h1>
      <p style="margin:0;font-size:13px;color:#bfdbfe;line-height:1.5;">
        Case Management &bull; Licensing &bull; Certification &bull; Permitting &bull; Workflow Platforms
      </p>
    </div>

    <div style="background:#eff6ff;padding:14px 28px;border-bottom:1px solid #dbeafe;display:flex;align-items:center;">
      <span style="font-size:15px;font-weight:700;color:#1e40af;">
        {{.Count}} new {{.Noun}} found
      </span>
      <span style="font-size:12px;color:#6b7280;margin-left:14px;">{{.SourceSummary}}</span>
    </div>

    <table width="100%" cellpadding="0" cellspacing="0" border="0" style="border-collapse:collapse;">
{{range .Rows}}      <tr>
        <td style="padding:20px 28px;border-bottom:1px solid #f0f0f0;vertical-align:top;">
          <div style="margin-bottom:8px;">
            {{sourceBadge .Source}}
            {{scoreBadge .Score}}
          </div>
          <a href="{{.URL}}" style="font-size:15px;font-weight:600;color:#1e40af;text-decoration:none;line-height:1.4;display:block;margin:6px 0 8px;">
            {{.Title}}
          </a>
          {{if .Description}}<p style="font-size:13px;color:#6b7280;margin:0 0 10px;line-height:1.6;">{{.Description}}</p>
          {{end}}<div style="font-size:12px;color:#9ca3af;">
            {{if .Posted}}<span>📅 {{.Posted}}</span>{{end}}{{if and .Posted .Agency}}<span style="color:#d1d5db">&nbsp;|&nbsp;</span>{{end}}{{if .Agency}}<span>🏛 {{.Agency}}</span>{{end}}{{if or .Posted .Agency}}<span style="color:#d1d5db">&nbsp;|&nbsp;</span>{{end}}<a href="{{.URL}}" style="color:#3b82f6;text-decoration:none;font-weight:500;">View opportunity →</a>
          </div>
        </td>
      </tr>
{{end}}    </table>
{{if .Expiring}}
    <div style="padding:14px 28px 10px;background:#fef3c7;border-top:2px solid #fcd34d;">
      <p style="margin:0;font-size:12px;font-weight:700;color:#92400e;text-transform:uppercase;letter-spacing:0.08em;">
        ⏰ Expiring Federal Contracts &mdash; Likely Upcoming RFPs
      </p>
      <p style="margin:4px 0 0;font-size:11px;color:#a16207;line-height:1.5;">
        These federal contracts expire within 12 months. Agencies typically
        issue RFPs 3&ndash;6 months before expiry.
      </p>
    </div>
    <table width="100%" cellpadding="0" cellspacing="0" border="0" style="border-collapse:collapse;">
{{range .Expiring}}      <tr>
        <td style="padding:16px 28px;border-bottom:1px solid #fef3c7;vertical-align:top;background:#fffbeb;">
          <div style="margin-bottom:6px;">
            <span style="display:inline-block;font-size:10px;font-weight:700;color:white;background:#d97706;padding:2px 8px;border-radius:10px;letter-spacing:0.04em;">Expiring Federal Contract</span>
          </div>
          <a href="{{.URL}}" style="font-size:14px;font-weight:600;color:#92400e;text-decoration:none;line-height:1.4;display:block;margin:6px 0 8px;">
            {{.Title}}
          </a>
          {{if .Description}}<p style="font-size:12px;color:#78716c;margin:0 0 8px;line-height:1.5;">{{.Description}}</p>
          {{end}}<div style="font-size:11px;color:#a8a29e;">
            {{if .Posted}}<span>⏰ Expires: {{.Posted}}</span>{{end}}{{if and .Posted .Agency}}<span style="color:#d1d5db">&nbsp;|&nbsp;</span>{{end}}{{if .Agency}}<span>🏛 {{.Agency}}</span>{{end}}{{if or .Posted .Agency}}<span style="color:#d1d5db">&nbsp;|&nbsp;</span>{{end}}<a href="{{.URL}}" style="color:#b45309;text-decoration:none;font-weight:500;">View on USASpending →</a>
          </div>
        </td>
      </tr>
{{end}}    </table>
{{end}}
    <div style="padding:24px 28px;background:#f8fafc;border-top:1px solid #e2e8f0;">
      <p style="margin:0;font-size:11px;color:#94a3b8;text-align:center;line-height:1.6;">
        RFP Scout &mdash; Automated daily digest<br>
        Opportunities are scored by relevance to case management, licensing, certification,
        and related government/nonprofit software platforms.
      </p>
    </div>

  </div>
</body>
</html>
`
