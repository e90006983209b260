package domain

// ThreadSummary is one roster line. Non-members see the admission metadata
// but never an unread count, since they cannot read the thread.
type ThreadSummary struct {
	Admission Admission
	IsMember  bool
	Unread    int
}
