package internal

import "sort"

// LeaderboardEntry is one ranked row of a room's leaderboard.
type LeaderboardEntry struct {
	Name  string  `json:"name"`
	Score int     `json:"score"`
	Dist  float64 `json:"dist"`
	Dead  bool    `json:"dead"`
	Color string  `json:"color"`
}

// Leaderboard is the snapshot broadcast on every score update, every
// disconnect, and every lobby return.
type Leaderboard struct {
	Top  LeaderboardEntry   `json:"top"`
	List []LeaderboardEntry `json:"list"`
}

// ComputeLeaderboard ranks every session by distance traveled,
// descending. Ties keep player-insertion order, a deliberate and testable
// policy, which is why the sort is stable over Room.Players(). An empty
// room yields the sentinel top entry.
func ComputeLeaderboard(room *Room) Leaderboard {
	players := room.Players()
	list := make([]LeaderboardEntry, 0, len(players))
	for _, p := range players {
		list = append(list, LeaderboardEntry{
			Name:  p.Name,
			Score: p.Score,
			Dist:  p.Dist,
			Dead:  p.Dead,
			Color: p.Color,
		})
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].Dist > list[j].Dist
	})

	top := LeaderboardEntry{Name: "---"}
	if len(list) > 0 {
		top = list[0]
	}
	return Leaderboard{Top: top, List: list}
}
