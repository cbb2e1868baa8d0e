package syncer

// Direction names which side is the source of a pass.
type Direction string

const (
	LocalToRemote Direction = "local_to_remote"
	RemoteToLocal Direction = "remote_to_local"
)

// Policy decides what a pass may do to a record that already exists on the
// destination. Missing records are always inserted; reminders are never
// updated in either direction.
type Policy struct {
	// OverwriteFolder copies name and color from source to destination.
	OverwriteFolder bool
	// OverwriteVideoContent copies title, description, thumbnail and
	// importance from source to destination.
	OverwriteVideoContent bool
}

// policies is the conflict table. Local edits win on the way up, remote
// edits to video content win on the way down, and a local folder is never
// renamed by the remote.
var policies = map[Direction]Policy{
	LocalToRemote: {OverwriteFolder: true, OverwriteVideoContent: true},
	RemoteToLocal: {OverwriteFolder: false, OverwriteVideoContent: true},
}

// PolicyFor returns the conflict policy of d.
func PolicyFor(d Direction) Policy {
	return policies[d]
}
