package mcpserver

// CSVFormatContract describes the data files the homepage reads, for LLM
// consumers that edit them.
const CSVFormatContract = `# Homepage CSV Format Contract

All data files are UTF-8 CSV in the data directory (flat, no sub-folders).
A leading byte-order mark is ignored. Blank lines are skipped.

## books.csv

Header row required. Column names are matched exactly first, then
case-insensitively. Unknown columns are ignored.

| Column | Meaning | When absent or invalid |
|---|---|---|
| Title | Book title | shown as "Unknown Title" |
| Author | Author name | shown as "Unknown Author" |
| Status | Free text, e.g. "reading" | not shown |
| Rating | Number, 0-5 stars (floor, capped at 5) | 0 stars |
| Date | Acquisition date, preferably YYYY-MM-DD | "Unknown date", sorts oldest |

Also accepted for Date: RFC 3339, YYYY/MM/DD, YYYY-MM, YYYY,
"Jan 2, 2006", "January 2, 2006", "2 Jan 2006".

## inspiration.csv

Header row required.

| Column | Meaning | When absent |
|---|---|---|
| URL | Link target | link to "#" labelled "Unknown URL" |
| Notes | Description | "Unknown notes" |

## coordinates.csv

No header. One marker per row: ` + "`lat,lon,code`" + `, e.g. ` + "`52.52,13.405,BER`" + `.
Rows with unparsable numbers or out-of-range positions are skipped.

## Sorting

The reading list cycles through rating-desc, date-desc and rating-asc.
Equal keys keep file order.

## Example

` + "```" + `csv
Title,Author,Status,Rating,Date
Dune,Frank Herbert,,5,2021-03-14
Piranesi,Susanna Clarke,reading,4,2024-01-01
` + "```" + `
`
