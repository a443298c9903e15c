package syncer

import "github.com/claude/fittrack/internal/program"

// Reconcile pairs the entities of local, the tree that was sent, with saved, the
// tree the backend returned, by position at every level. It returns one Rekey for
// each local placeholder whose counterpart now has a durable id. The backend keeps
// the order of every list, so positions line up.
func Reconcile(local, saved program.Program) []program.Rekey {
	var out []program.Rekey
	add := func(kind program.EntityKind, from, to program.ID) {
		if from.IsPlaceholder() && to.IsDurable() {
			out = append(out, program.Rekey{Kind: kind, From: from, To: to})
		}
	}

	add(program.KindProgram, local.ID, saved.ID)
	for i := range min(len(local.Workouts), len(saved.Workouts)) {
		lw, sw := local.Workouts[i], saved.Workouts[i]
		add(program.KindWorkout, lw.ID, sw.ID)
		for j := range min(len(lw.Exercises), len(sw.Exercises)) {
			le, se := lw.Exercises[j], sw.Exercises[j]
			add(program.KindExercise, le.ID, se.ID)
			for k := range min(len(le.Sets), len(se.Sets)) {
				add(program.KindSet, le.Sets[k].ID, se.Sets[k].ID)
			}
		}
	}
	return out
}
