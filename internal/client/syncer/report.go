package syncer

import "fmt"

// Report counts what a pass wrote. Failed counts records that could not be
// read or written; those are logged and skipped.
type Report struct {
	FoldersInserted   int
	FoldersUpdated    int
	VideosInserted    int
	VideosUpdated     int
	RemindersInserted int
	Failed            int
}

// Writes is the number of rows written to the destination.
func (r Report) Writes() int {
	return r.FoldersInserted + r.FoldersUpdated + r.VideosInserted + r.VideosUpdated + r.RemindersInserted
}

// Add sums two reports.
func (r Report) Add(o Report) Report {
	return Report{
		FoldersInserted:   r.FoldersInserted + o.FoldersInserted,
		FoldersUpdated:    r.FoldersUpdated + o.FoldersUpdated,
		VideosInserted:    r.VideosInserted + o.VideosInserted,
		VideosUpdated:     r.VideosUpdated + o.VideosUpdated,
		RemindersInserted: r.RemindersInserted + o.RemindersInserted,
		Failed:            r.Failed + o.Failed,
	}
}

func (r Report) String() string {
	return fmt.Sprintf("folders +%d ~%d, videos +%d ~%d, reminders +%d, failed %d",
		r.FoldersInserted, r.FoldersUpdated, r.VideosInserted, r.VideosUpdated, r.RemindersInserted, r.Failed)
}
