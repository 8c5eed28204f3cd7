package seed

import (
	"fmt"
	"sort"

	"github.com/prometheus/procfs"
	log "github.com/sirupsen/logrus"

	"ptree/internal/proctree"
)

// Proc is one process as read from procfs, before tree insertion.
type Proc struct {
	PID       int32
	PPID      int32
	Comm      string
	UID       uint32
	State     proctree.State
	StartTick uint64 // clock ticks since boot at process start
}

// Collect reads every live process under the given procfs mount point,
// usually "/proc". Processes that disappear mid-scan are skipped.
func Collect(mountPoint string) ([]Proc, error) {
	fs, err := procfs.NewFS(mountPoint)
	if err != nil {
		return nil, fmt.Errorf("opening procfs at %s: %w", mountPoint, err)
	}
	procs, err := fs.AllProcs()
	if err != nil {
		return nil, fmt.Errorf("listing processes: %w", err)
	}

	out := make([]Proc, 0, len(procs))
	for _, p := range procs {
		stat, err := p.Stat()
		if err != nil {
			log.WithField("pid", p.PID).WithError(err).Debug("process vanished during scan")
			continue
		}
		var uid uint32
		if status, err := p.NewStatus(); err == nil {
			uid = uint32(status.UIDs[0]) // real uid, matching the real-parent discipline
		}
		out = append(out, Proc{
			PID:       int32(p.PID),
			PPID:      int32(stat.PPID),
			Comm:      stat.Comm,
			UID:       uid,
			State:     mapState(stat.State),
			StartTick: stat.Starttime,
		})
	}
	return out, nil
}

// Build inserts procs into the tree, parents before children, siblings in
// start-time order. Entries whose parent is absent (already exited, or a
// kernel thread parented to pid 0) attach to the root, the same place the
// kernel reparents orphans. Returns the number of processes inserted.
func Build(t *proctree.Tree, procs []Proc) int {
	sorted := make([]Proc, len(procs))
	copy(sorted, procs)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].StartTick != sorted[j].StartTick {
			return sorted[i].StartTick < sorted[j].StartTick
		}
		return sorted[i].PID < sorted[j].PID
	})

	rootPID := t.Root().PID()
	inserted := 0
	for _, p := range sorted {
		if p.PID == rootPID {
			continue
		}
		parent := p.PPID
		t.RLock()
		known := t.Lookup(parent) != nil
		t.RUnlock()
		if !known {
			parent = rootPID
		}
		if _, err := t.Fork(parent, p.PID, p.Comm, p.UID, p.State); err != nil {
			log.WithField("pid", p.PID).WithError(err).Debug("skipping process")
			continue
		}
		inserted++
	}
	return inserted
}

// FromSystem collects the live processes under mountPoint and builds a
// tree rooted at pid 1.
func FromSystem(mountPoint string) (*proctree.Tree, error) {
	procs, err := Collect(mountPoint)
	if err != nil {
		return nil, err
	}

	var root *Proc
	for i := range procs {
		if procs[i].PID == 1 {
			root = &procs[i]
			break
		}
	}
	if root == nil {
		return nil, fmt.Errorf("no pid 1 under %s", mountPoint)
	}

	t := proctree.New(root.PID, root.Comm, root.UID)
	if err := t.SetState(root.PID, root.State); err != nil {
		return nil, err
	}
	n := Build(t, procs)
	log.WithFields(log.Fields{"processes": n + 1, "mount": mountPoint}).Debug("seeded process tree")
	return t, nil
}

// mapState maps procfs single-letter states onto the coarse run states.
func mapState(letter string) proctree.State {
	switch letter {
	case "R":
		return proctree.StateRunning
	case "S", "I":
		return proctree.StateInterruptible
	case "D":
		return proctree.StateUninterruptible
	case "T", "t":
		return proctree.StateStopped
	case "Z", "X":
		return proctree.StateZombie
	default:
		return proctree.StateInterruptible
	}
}
