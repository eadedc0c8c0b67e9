package utils

import (
	"fmt"
	"html"
	"strings"
	"time"
)

// DigestRow is one bank's line in the upload digest.
type DigestRow struct {
	Bank     string
	Uploaded int
	Pending  int
}

// UploadDigestEmail renders the daily upload digest.
func UploadDigestEmail(rows []DigestRow, since, until time.Time) (string, string) {
	total := 0
	var lines strings.Builder
	for _, r := range rows {
		total += r.Uploaded
		fmt.Fprintf(&lines, `
				<tr>
					<td>%s</td>
					<td class="num">%d</td>
					<td class="num">%d</td>
				</tr>`, html.EscapeString(r.Bank), r.Uploaded, r.Pending)
	}

	subject := fmt.Sprintf("Bank statement uploads: %d new rows (%s)", total, until.Format("Jan 2, 2006"))

	body := fmt.Sprintf(`
	<!DOCTYPE html>
	<html lang="en">
	<head>
	<meta charset="UTF-8">
	<title>Statement Upload Digest</title>
	<style>
		body {
			font-family: 'Segoe UI', Roboto, Arial, sans-serif;
			background-color: #f6f8f7;
			color: #333;
		}
		.container {
			max-width: 520px;
			margin: 25px auto;
			background: #ffffff;
			border-radius: 12px;
			border-top: 5px solid #0a4d3c;
			padding: 18px;
		}
		table {
			width: 100%%;
			border-collapse: collapse;
			font-size: 14px;
		}
		th, td {
			padding: 8px;
			border-bottom: 1px solid #e5e5e5;
			text-align: left;
		}
		.num {
			text-align: right;
		}
		.footer {
			font-size: 12px;
			color: #777;
			margin-top: 14px;
		}
	</style>
	</head>
	<body>
		<div class="container">
			<h2>Statement Upload Digest</h2>
			<p>Rows stored between %s and %s.</p>
			<table>
				<tr>
					<th>Bank</th>
					<th class="num">New rows</th>
					<th class="num">Awaiting reconciliation</th>
				</tr>%s
			</table>
			<p class="footer">Generated %s</p>
		</div>
	</body>
	</html>
	`, since.Format(time.RFC1123), until.Format(time.RFC1123), lines.String(), until.Format(time.RFC3339))

	return subject, body
}
