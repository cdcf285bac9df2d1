// meta/meta.go
package meta

import "math"

// Depth defines the default search depth for minmax and alpha-beta.
const Depth = 9

// Simulations defines the number of simulations per move for MCTS.
const Simulations = 1000

// Exploration defines the UCT exploration constant.
const Exploration = math.Sqrt2

// MaxTurns bounds the length of a game played by the engine.
const MaxTurns = 200

// NumGames defines the number of games per match-up in experiments.
const NumGames = 10

// Workers bounds the number of games played concurrently in experiments.
const Workers = 4
