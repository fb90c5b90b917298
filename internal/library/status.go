package library

import "fmt"

// DatasetStatus describes one configured dataset for readiness reporting.
type DatasetStatus struct {
	Kind     string `json:"kind"`
	File     string `json:"file"`
	Checksum string `json:"checksum,omitempty"`
	Records  int    `json:"records"`
	Error    string `json:"error,omitempty"`
}

// Status reports each configured dataset in books, inspiration, coordinates
// order. Book counts come from the index so a snapshot and index that have
// drifted apart show up here.
func (s *Service) Status() ([]DatasetStatus, error) {
	snap := s.snap.Load()
	entries := []struct {
		kind, file string
		n          int
		err        error
	}{
		{KindBooks, s.files.Books, len(snap.Books), snap.BooksErr},
		{KindInspiration, s.files.Inspiration, len(snap.Inspiration), snap.InspirationErr},
		{KindCoordinates, s.files.Coordinates, len(snap.Coordinates), snap.CoordinatesErr},
	}

	var out []DatasetStatus
	for _, e := range entries {
		if e.file == "" {
			continue
		}
		st := DatasetStatus{Kind: e.kind, File: e.file, Records: e.n}
		if e.err != nil {
			st.Records = 0
			st.Error = e.err.Error()
			out = append(out, st)
			continue
		}
		cs, err := s.db.GetChecksum(e.file)
		if err != nil {
			return nil, fmt.Errorf("library: status: %w", err)
		}
		st.Checksum = cs
		if e.kind == KindBooks {
			n, err := s.db.BookCount(e.file)
			if err != nil {
				return nil, fmt.Errorf("library: status: %w", err)
			}
			st.Records = n
		}
		out = append(out, st)
	}
	return out, nil
}
