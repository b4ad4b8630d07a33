package proto

// TransKind tags the acknowledgement discipline of a transaction.
type TransKind uint8

const (
	// TransAsync marks a fire-and-forget request.
	TransAsync TransKind = 1
	// TransSync marks a request whose sender blocks for a reply.
	TransSync TransKind = 2
)

// Trans is the outer request envelope.
type Trans[UD any] struct {
	Kind TransKind
	Req  Req[UD]
}

// Async wraps a request that expects no reply.
func Async[UD any](req Req[UD]) Trans[UD] {
	return Trans[UD]{Kind: TransAsync, Req: req}
}

// Sync wraps a request whose sender blocks for a reply.
func Sync[UD any](req Req[UD]) Trans[UD] {
	return Trans[UD]{Kind: TransSync, Req: req}
}

// ReqKind tags the request variant.
type ReqKind uint8

const (
	// ReqInit is the session handshake request.
	ReqInit ReqKind = 1
	// ReqLookup carries one or many lookup tasks.
	ReqLookup ReqKind = 2
	// ReqTerminate asks the worker to shut down.
	ReqTerminate ReqKind = 3
)

// Req is a client request. Exactly one variant is set, selected by Kind;
// only ReqLookup carries a payload.
type Req[UD any] struct {
	Kind   ReqKind
	Lookup Workload[LookupTask[UD]]
}

// Init returns the handshake request.
func Init[UD any]() Req[UD] {
	return Req[UD]{Kind: ReqInit}
}

// Lookup returns a request carrying the given workload of tasks.
func Lookup[UD any](w Workload[LookupTask[UD]]) Req[UD] {
	return Req[UD]{Kind: ReqLookup, Lookup: w}
}

// Terminate returns the shutdown request.
func Terminate[UD any]() Req[UD] {
	return Req[UD]{Kind: ReqTerminate}
}

// WorkloadKind tags the single-or-batch arity of a workload.
type WorkloadKind uint8

const (
	// WorkloadSingle carries exactly one item.
	WorkloadSingle WorkloadKind = 1
	// WorkloadMany carries an ordered, possibly empty batch.
	WorkloadMany WorkloadKind = 2
)

// Workload wraps one or many items so a single message can carry a batch.
// Many preserves submission order.
type Workload[T any] struct {
	Kind  WorkloadKind
	One   T
	Items []T
}

// Single wraps one item.
func Single[T any](v T) Workload[T] {
	return Workload[T]{Kind: WorkloadSingle, One: v}
}

// Many wraps an ordered batch. A nil slice is normalized to an empty one.
func Many[T any](items []T) Workload[T] {
	if items == nil {
		items = []T{}
	}
	return Workload[T]{Kind: WorkloadMany, Items: items}
}

// LookupType selects how many and which matches the requester wants.
type LookupType uint8

const (
	// LookupAll requests every match.
	LookupAll LookupType = 1
	// LookupBest requests only the best match.
	LookupBest LookupType = 2
	// LookupBestOrMine requests the best match, falling back to the
	// newly inserted cluster when nothing matches.
	LookupBestOrMine LookupType = 3
)

// LookupTask is one unit of work: text to match, the desired result shape,
// and an optional insertion instruction applied after the lookup.
type LookupTask[UD any] struct {
	Text       string
	Result     LookupType
	PostAction PostAction[UD]
}

// PostActionKind tags the post-lookup action variant.
type PostActionKind uint8

const (
	// PostNone requests no action after the lookup.
	PostNone PostActionKind = 1
	// PostInsertNew requests a conditional insertion of the text as a
	// new cluster.
	PostInsertNew PostActionKind = 2
)

// PostAction is the optional insertion policy of a lookup task. Cond,
// Assign and UserData are meaningful only when Kind is PostInsertNew.
type PostAction[UD any] struct {
	Kind     PostActionKind
	Cond     InsertCond
	Assign   ClusterAssign
	UserData UD
}

// NoAction returns the empty post action.
func NoAction[UD any]() PostAction[UD] {
	return PostAction[UD]{Kind: PostNone}
}

// InsertNew returns an insertion instruction gated by cond.
func InsertNew[UD any](cond InsertCond, assign ClusterAssign, userData UD) PostAction[UD] {
	return PostAction[UD]{Kind: PostInsertNew, Cond: cond, Assign: assign, UserData: userData}
}

// CondKind tags a similarity threshold gate.
type CondKind uint8

const (
	// CondAlways passes unconditionally.
	CondAlways CondKind = 1
	// CondBestSimLessThan passes only when the best similarity found is
	// below the threshold.
	CondBestSimLessThan CondKind = 2
)

// InsertCond gates whether the insertion happens at all.
type InsertCond struct {
	Kind      CondKind
	Threshold float64
}

// InsertAlways inserts unconditionally.
func InsertAlways() InsertCond {
	return InsertCond{Kind: CondAlways}
}

// InsertBestSimLessThan inserts only when the best similarity found is
// below threshold.
func InsertBestSimLessThan(threshold float64) InsertCond {
	return InsertCond{Kind: CondBestSimLessThan, Threshold: threshold}
}

// AssignCond gates the cluster assignment step, independently of the
// insertion gate.
type AssignCond struct {
	Kind      CondKind
	Threshold float64
}

// AssignAlways assigns unconditionally.
func AssignAlways() AssignCond {
	return AssignCond{Kind: CondAlways}
}

// AssignBestSimLessThan assigns only when the best similarity found is
// below threshold.
func AssignBestSimLessThan(threshold float64) AssignCond {
	return AssignCond{Kind: CondBestSimLessThan, Threshold: threshold}
}

// ChoiceKind tags who names the new cluster.
type ChoiceKind uint8

const (
	// ChoiceServer lets the worker pick the new cluster id.
	ChoiceServer ChoiceKind = 1
	// ChoiceClient carries a caller-chosen cluster id.
	ChoiceClient ChoiceKind = 2
)

// ClusterChoice selects who names the newly inserted cluster. ClusterID is
// meaningful only when Kind is ChoiceClient.
type ClusterChoice struct {
	Kind      ChoiceKind
	ClusterID uint64
}

// ServerChoice lets the worker pick the cluster id.
func ServerChoice() ClusterChoice {
	return ClusterChoice{Kind: ChoiceServer}
}

// ClientChoice names the cluster id on the client side.
func ClientChoice(clusterID uint64) ClusterChoice {
	return ClusterChoice{Kind: ChoiceClient, ClusterID: clusterID}
}

// ClusterAssign governs how the new cluster's identity is chosen.
type ClusterAssign struct {
	Cond   AssignCond
	Choice ClusterChoice
}

// RepKind tags the worker reply variant.
type RepKind uint8

const (
	// RepInitAck acknowledges ReqInit.
	RepInitAck RepKind = 1
	// RepResult carries lookup results; its workload arity mirrors the
	// request's (single for single, many for many, same length and order).
	RepResult RepKind = 2
	// RepTerminateAck acknowledges ReqTerminate.
	RepTerminateAck RepKind = 3
	// RepUnexpected echoes a request the worker could not handle in its
	// current state.
	RepUnexpected RepKind = 4
	// RepTooBusy rejects the request because the worker is overloaded.
	RepTooBusy RepKind = 5
	// RepWantCrash announces the worker's intent to crash.
	RepWantCrash RepKind = 6
)

// Rep is a worker reply. Exactly one variant is set, selected by Kind;
// Result is set for RepResult and Unexpected for RepUnexpected.
type Rep[UD any] struct {
	Kind       RepKind
	Result     Workload[LookupResult[UD]]
	Unexpected Req[UD]
}

// InitAck acknowledges the handshake.
func InitAck[UD any]() Rep[UD] {
	return Rep[UD]{Kind: RepInitAck}
}

// Result carries per-task lookup results.
func Result[UD any](w Workload[LookupResult[UD]]) Rep[UD] {
	return Rep[UD]{Kind: RepResult, Result: w}
}

// TerminateAck acknowledges the shutdown request.
func TerminateAck[UD any]() Rep[UD] {
	return Rep[UD]{Kind: RepTerminateAck}
}

// Unexpected echoes a request received in the wrong state.
func Unexpected[UD any](req Req[UD]) Rep[UD] {
	return Rep[UD]{Kind: RepUnexpected, Unexpected: req}
}

// TooBusy rejects the request due to overload.
func TooBusy[UD any]() Rep[UD] {
	return Rep[UD]{Kind: RepTooBusy}
}

// WantCrash announces crash intent to the supervisor.
func WantCrash[UD any]() Rep[UD] {
	return Rep[UD]{Kind: RepWantCrash}
}

// LookupResultKind tags the per-task outcome variant.
type LookupResultKind uint8

const (
	// ResultEmptySet means no cluster matched.
	ResultEmptySet LookupResultKind = 1
	// ResultBest carries the single best match.
	ResultBest LookupResultKind = 2
	// ResultNeighbours carries one or many matches.
	ResultNeighbours LookupResultKind = 3
	// ResultError carries a per-task failure message.
	ResultError LookupResultKind = 4
)

// LookupResult is the outcome of one lookup task. Best, Neighbours and Err
// are meaningful only for their respective kinds.
type LookupResult[UD any] struct {
	Kind       LookupResultKind
	Best       Match[UD]
	Neighbours Workload[Match[UD]]
	Err        string
}

// EmptySet reports that no cluster matched.
func EmptySet[UD any]() LookupResult[UD] {
	return LookupResult[UD]{Kind: ResultEmptySet}
}

// Best reports the single best match.
func Best[UD any](m Match[UD]) LookupResult[UD] {
	return LookupResult[UD]{Kind: ResultBest, Best: m}
}

// Neighbours reports the matching clusters.
func Neighbours[UD any](w Workload[Match[UD]]) LookupResult[UD] {
	return LookupResult[UD]{Kind: ResultNeighbours, Neighbours: w}
}

// LookupError reports a per-task failure.
func LookupError[UD any](message string) LookupResult[UD] {
	return LookupResult[UD]{Kind: ResultError, Err: message}
}

// Match is one cluster hit. Similarity is a finite real number; by
// convention it falls in [0.0, 1.0].
type Match[UD any] struct {
	ClusterID  uint64
	Similarity float64
	UserData   UD
}
