package param

// parseQuery tokenizes a key=value&key=value buffer into records.
// Nothing is decoded or copied here; a field without '=' gets an empty value,
// and "&&" yields an empty-name record that never matches a lookup.
func parseQuery(buf []byte) []record {
	var (
		records []record
		n       = int64(len(buf))
		pos     int64
	)
	for pos < n {
		rec := record{name: span{from: pos}}
		for pos < n && buf[pos] != '=' && buf[pos] != '&' {
			pos++
		}
		rec.name.edge = pos
		if pos < n && buf[pos] == '=' {
			pos++ // skip '='
			rec.value.from = pos
			for pos < n && buf[pos] != '&' {
				pos++
			}
			rec.value.edge = pos
		} else {
			rec.value = span{from: pos, edge: pos}
		}
		records = append(records, rec)
		if pos < n { // skip '&'
			pos++
		}
	}
	return records
}
