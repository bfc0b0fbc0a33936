package report

// htmlCoverageReport is the templates contents for html style coverage report.
var htmlCoverageReport = "" +
	`<!DOCTYPE html>
<html lang="en">

<head>
    <meta charset="utf-8">
    <title>Code Coverage Report</title>
    <style type="text/css">
        body { font-family: sans-serif; padding: 20px; }
        table { border-collapse: collapse; width: 100%; margin-top: 20px; }
        th, td { padding: 8px 12px; border: 1px solid #ddd; text-align: left; }
        th { background-color: #f2f2f2; }
        .low { color: red; }
        .med { color: orange; }
        .high { color: green; }
        .src-snippet { margin-top: 2em; }
        .src-name { font-weight: bold; }
        .snippets { border-top: 1px solid #bdbdbd; border-bottom: 1px solid #bdbdbd; }
    </style>
</head>

<body>
    <h1>Code Coverage Report</h1>
    {{ if .Commit }}
    <p>Commit: {{ .Commit }}</p>
    {{ end }}
    <table>
        <tr><th>File</th><th>Coverage %</th></tr>
        {{ range .Files }}
        <tr><td>{{ if .CodeSnippet }}<a href="#{{ .Path }}">{{ .Path }}</a>{{ else }}{{ .Path }}{{ end }}</td><td class="{{ .Band }}">{{ FormatPercent .Percent }}</td></tr>
        {{ end }}
    </table>

    {{ if not .Files }}
    <p><em>No files matched the coverage report filters.</em></p>
    {{ end }}

    <h2 class="{{ .TotalBand }}">Total Coverage: {{ FormatPercent .TotalPercent }}</h2>

    {{ if .Directories }}
    <h3>Coverage by Directory</h3>
    <table>
        <tr><th>Directory</th><th>Files</th><th>Coverage %</th></tr>
        {{ range .Directories }}
        <tr><td>{{ .Path }}/</td><td>{{ .Files }}</td><td class="{{ .Band }}">{{ FormatPercent .Percent }}</td></tr>
        {{ end }}
    </table>
    {{ end }}

    {{ range .Files }}
        {{ if .CodeSnippet }}
        <div class="src-snippet">
            <div class="src-name" id="{{ .Path }}">{{ .Path }}</div>
            <div class="snippets">
                {{ range .CodeSnippet }}
                {{ . }}
                {{ end }}
            </div>
        </div>
        {{ end }}
    {{ end }}

    {{ if .ExcludedFiles }}
        <h3>Exclude Files</h3>
        <ul>
        {{ range .ExcludedFiles }}
            <li>{{ . }}</li>
        {{ end }}
        </ul>
    {{ end }}

</body>

</html>
`
