package proto

// Shared message corpus covering every variant of the model, used by the
// binary and text round-trip suites.

type namedTrans struct {
	name  string
	trans Trans[string]
}

type namedRep struct {
	name string
	rep  Rep[string]
}

func plainTask(text string) LookupTask[string] {
	return LookupTask[string]{
		Text:       text,
		Result:     LookupAll,
		PostAction: NoAction[string](),
	}
}

func insertTask(text string, userData string) LookupTask[string] {
	return LookupTask[string]{
		Text:   text,
		Result: LookupBestOrMine,
		PostAction: InsertNew(
			InsertAlways(),
			ClusterAssign{Cond: AssignAlways(), Choice: ServerChoice()},
			userData,
		),
	}
}

func thresholdTask(text string, userData string) LookupTask[string] {
	return LookupTask[string]{
		Text:   text,
		Result: LookupBest,
		PostAction: InsertNew(
			InsertBestSimLessThan(0.5),
			ClusterAssign{Cond: AssignBestSimLessThan(0.25), Choice: ClientChoice(177)},
			userData,
		),
	}
}

func sampleMatch() Match[string] {
	return Match[string]{ClusterID: 177, Similarity: 0.5, UserData: "some data"}
}

func sampleRequests() []namedTrans {
	return []namedTrans{
		{"AsyncInit", Async(Init[string]())},
		{"SyncInit", Sync(Init[string]())},
		{"AsyncTerminate", Async(Terminate[string]())},
		{"SyncTerminate", Sync(Terminate[string]())},
		{"LookupSinglePlain", Sync(Lookup(Single(plainTask("hello world"))))},
		{"LookupSingleEmptyText", Sync(Lookup(Single(plainTask(""))))},
		{"LookupSingleUnicode", Async(Lookup(Single(plainTask("こんにちは мир"))))},
		{"LookupSingleInsertAlways", Async(Lookup(Single(insertTask("hello world", "some data"))))},
		{"LookupSingleInsertThreshold", Sync(Lookup(Single(thresholdTask("hello world", "some data"))))},
		{"LookupManyMixed", Async(Lookup(Many([]LookupTask[string]{
			plainTask("alpha"),
			insertTask("beta", "payload-b"),
			thresholdTask("gamma", "payload-c"),
		})))},
		{"LookupManyEmpty", Sync(Lookup(Many([]LookupTask[string]{})))},
	}
}

func sampleReplies() []namedRep {
	return []namedRep{
		{"InitAck", InitAck[string]()},
		{"TerminateAck", TerminateAck[string]()},
		{"TooBusy", TooBusy[string]()},
		{"WantCrash", WantCrash[string]()},
		{"ResultSingleEmptySet", Result(Single(EmptySet[string]()))},
		{"ResultSingleBest", Result(Single(Best(sampleMatch())))},
		{"ResultSingleNeighboursSingle", Result(Single(Neighbours(Single(sampleMatch()))))},
		{"ResultSingleNeighboursMany", Result(Single(Neighbours(Many([]Match[string]{
			{ClusterID: 1, Similarity: 0.75, UserData: "a"},
			{ClusterID: 2, Similarity: 0.25, UserData: "b"},
		}))))},
		{"ResultSingleError", Result(Single(LookupError[string]("lookup failed")))},
		{"ResultManyMixed", Result(Many([]LookupResult[string]{
			EmptySet[string](),
			Best(sampleMatch()),
			Neighbours(Many([]Match[string]{{ClusterID: 9, Similarity: 0.125, UserData: "n"}})),
			LookupError[string]("boom"),
		}))},
		{"ResultManyEmpty", Result(Many([]LookupResult[string]{}))},
		{"UnexpectedInit", Unexpected(Init[string]())},
		{"UnexpectedLookup", Unexpected(Lookup(Single(insertTask("hello world", "some data"))))},
	}
}

func sampleFloatRequests() []struct {
	name  string
	trans Trans[float64]
} {
	insert := LookupTask[float64]{
		Text:   "hello world",
		Result: LookupBest,
		PostAction: InsertNew(
			InsertBestSimLessThan(0.5),
			ClusterAssign{Cond: AssignAlways(), Choice: ClientChoice(42)},
			3.25,
		),
	}
	return []struct {
		name  string
		trans Trans[float64]
	}{
		{"AsyncInit", Async(Init[float64]())},
		{"LookupInsert", Sync(Lookup(Single(insert)))},
		{"LookupMany", Async(Lookup(Many([]LookupTask[float64]{insert, insert})))},
	}
}

func sampleFloatReplies() []struct {
	name string
	rep  Rep[float64]
} {
	return []struct {
		name string
		rep  Rep[float64]
	}{
		{"ResultBest", Result(Single(Best(Match[float64]{ClusterID: 7, Similarity: 0.5, UserData: 2.5})))},
		{"ResultNeighbours", Result(Many([]LookupResult[float64]{
			Neighbours(Many([]Match[float64]{
				{ClusterID: 1, Similarity: 0.75, UserData: -1.5},
				{ClusterID: 2, Similarity: 0.25, UserData: 1e-3},
			})),
		}))},
		{"Unexpected", Unexpected(Terminate[float64]())},
	}
}
