// Package internal implements the server-authoritative session
// coordinator for the neon-glide multiplayer arcade game.
//
// Players join a named room, race through a procedurally generated
// obstacle course and watch a live leaderboard. The coordinator owns
// room lifecycle, player-state replication, shared world generation and
// leaderboard computation; rendering, input and physics live entirely
// in the browser client.
//
// Layering:
//
//   - Registry owns every Room; rooms are created on the first join to
//     an unseen id and deleted when the last session leaves.
//   - Room is the per-instance state machine (waiting ↔ playing) with
//     its player set and the current blueprint.
//   - Blueprint is a shared sequence of 2000 pseudo-random values sent
//     once per cycle; every client derives an identical obstacle layout
//     from it, which removes per-obstacle broadcasts and the clock-skew
//     hazard of server-timed spawning.
//   - Broadcaster fans events out to a room's sessions and computes
//     leaderboard snapshots.
//   - Coordinator routes inbound envelopes through a handler table and
//     serializes all mutation behind a single mutex, so feeding
//     envelopes directly makes the whole core testable with no live
//     transport.
//   - Hub is the gorilla/websocket transport bridging connections onto
//     the coordinator.
//
// The coordinator trusts client-reported telemetry (position, distance,
// score); there is no validation, persistence or reconnection support.
package internal
