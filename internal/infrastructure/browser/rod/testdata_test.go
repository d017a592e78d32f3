package rod

// TestHTML templates for testing
const (
	BasicHTML = `<!DOCTYPE html>
<html>
<head><title>Test Page</title></head>
<body>
	<h1>Hello World</h1>
</body>
</html>`

	SearchHTML = `<!DOCTYPE html>
<html>
<body>
	<form id="searchForm" action="/results" method="get">
		<input id="q" type="text" name="q" value="stale text" />
	</form>
</body>
</html>`

	LinksHTML = `<!DOCTYPE html>
<html>
<body>
	<a href="/home" id="home">Home</a>
	<a href="/cats" id="cats">Wikipedia - Cats</a>
	<a href="/wiki" id="wiki">Wikipedia</a>
	<span>Wikipedia without a link</span>
</body>
</html>`

	ResultsHTML = `<!DOCTYPE html>
<html>
<head><title>Results</title></head>
<body><h1>Results</h1></body>
</html>`
)
