package domain

// TimestampLayout formats every date column, e.g. "03/14/21 02:05:09 PM".
const TimestampLayout = "01/02/06 03:04:05 PM"

// PRFragment is the normalised pull request data for one index.
// Only Number is filled in commit mode.
type PRFragment struct {
	Number   Field
	Author   Field
	Body     Field
	ClosedAt Field
	Comments Field
	Title    Field
}

// IssueFragment is the normalised issue data for one index.
type IssueFragment struct {
	ClosedAt Field
	Author   Field
	Title    Field
	Body     Field
	Comments Field
	IsPR     Field
}

// CommitFragment is the normalised commit data for one index.
// Date is filled in pr mode; Committer through Changes in commit mode.
type CommitFragment struct {
	Author    Field
	Message   Field
	Date      Field
	Committer Field
	SHA       Field
	Files     Field
	Patch     Field
	Additions Field
	Deletions Field
	Status    Field
	Changes   Field
}

// AbsentCommitFragment returns a fragment with every column absent,
// used for pull requests without commits.
func AbsentCommitFragment() CommitFragment {
	return CommitFragment{}
}

// Row is one aligned output row. Its length equals the mode's Width.
type Row []Field
