package cmd

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/subcommands"
	"google.golang.org/genai"

	"github.com/lfmartins/cryptofolio"
	"github.com/lfmartins/cryptofolio/advisor"
	"github.com/lfmartins/cryptofolio/renderer"
)

type liveCmd struct {
	interval   time.Duration
	volatility float64
	seed       int64
}

func (*liveCmd) Name() string     { return "live" }
func (*liveCmd) Synopsis() string { return "start an interactive portfolio session" }
func (*liveCmd) Usage() string {
	return `cfol live [-interval <d>] [-volatility <v>] [-seed <seed>]

  Starts an interactive session with the market simulator ticking in the
  background. Type 'help' for the session commands, 'bye' to exit.
`
}

func (c *liveCmd) SetFlags(f *flag.FlagSet) {
	f.DurationVar(&c.interval, "interval", cryptofolio.DefaultTickInterval, "Market tick cadence.")
	f.Float64Var(&c.volatility, "volatility", cryptofolio.DefaultVolatility, "Per-tick volatility bound.")
	f.Int64Var(&c.seed, "seed", 0, "Random seed. 0 seeds from the clock.")
}

const prompt = "cfol> "

const sessionHelp = `Session commands:
  market                           show the live market
  portfolio                        show the valuated portfolio
  tx                               show the transaction history
  buy <coin> <amount> <price> [fee] [exchange]
  sell <coin> <amount> <price> [exchange]
  watch <coin> <above|below> <target>
  watchlist                        show the watchlist with hit status
  unwatch <n>                      remove the n-th watchlist entry
  advise                           ask the AI advisor about the portfolio
  tick                             force one market tick
  bye                              end the session`

func (c *liveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var rng *rand.Rand
	if c.seed != 0 {
		rng = rand.New(rand.NewSource(c.seed))
	}
	sim := cryptofolio.NewSimulator(c.volatility, rng)

	session := cryptofolio.NewSession(
		cryptofolio.State{Registry: cryptofolio.DefaultRegistry()}, sim, c.interval)
	session.Start(ctx)
	defer session.Close()

	fmt.Println("Welcome to cfol. The market ticks every", c.interval, "- type 'help' for commands, 'bye' to exit.")

	// REPL loop
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Print(prompt)
		line, err := reader.ReadString('\n')
		if err != nil {
			if err == io.EOF {
				return subcommands.ExitSuccess // Clean exit on Ctrl+D
			}
			fmt.Fprintln(os.Stderr, "Error reading input:", err)
			return subcommands.ExitFailure
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		verb, args := strings.ToLower(fields[0]), fields[1:]
		if verb == "bye" || verb == "exit" || verb == "quit" {
			return subcommands.ExitSuccess
		}
		c.dispatch(ctx, session, verb, args)
	}
}

func (c *liveCmd) dispatch(ctx context.Context, session *cryptofolio.Session, verb string, args []string) {
	state := session.Snapshot()
	switch verb {
	case "help":
		fmt.Println(sessionHelp)
	case "market":
		printMarkdown(renderer.Market(state.Registry))
	case "portfolio":
		printMarkdown(renderer.Positions(session.Positions(), state.Registry))
	case "tx":
		printMarkdown(renderer.Transactions(state.Ledger))
	case "watchlist":
		printMarkdown(renderer.Watchlist(session.Alerts(), state.Registry))
	case "buy", "sell":
		c.trade(session, verb, args)
	case "watch":
		c.watch(session, args)
	case "unwatch":
		c.unwatch(session, args)
	case "tick":
		if err := session.Tick(); err != nil {
			fmt.Println("Error:", err)
			return
		}
		printMarkdown(renderer.Market(session.Snapshot().Registry))
	case "advise":
		c.advise(ctx, session)
	default:
		fmt.Printf("Unknown command %q, type 'help'.\n", verb)
	}
}

// resolveCoin accepts a coin ID or a symbol, case-insensitively.
func resolveCoin(reg cryptofolio.Registry, name string) (cryptofolio.Coin, bool) {
	if coin, ok := reg.Coin(strings.ToLower(name)); ok {
		return coin, true
	}
	for coin := range reg.Coins() {
		if strings.EqualFold(coin.Symbol, name) {
			return coin, true
		}
	}
	return cryptofolio.Coin{}, false
}

func (c *liveCmd) trade(session *cryptofolio.Session, verb string, args []string) {
	if len(args) < 3 {
		fmt.Printf("Usage: %s <coin> <amount> <price> ...\n", verb)
		return
	}
	coin, ok := resolveCoin(session.Snapshot().Registry, args[0])
	if !ok {
		fmt.Printf("Unknown coin %q.\n", args[0])
		return
	}
	amount, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		fmt.Printf("Invalid amount %q.\n", args[1])
		return
	}
	price, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		fmt.Printf("Invalid price %q.\n", args[2])
		return
	}

	in := cryptofolio.TransactionInput{
		CoinID:       coin.ID,
		Type:         cryptofolio.Buy,
		Amount:       cryptofolio.Q(amount),
		PricePerCoin: cryptofolio.BRL(price),
		Fee:          cryptofolio.BRL(0),
		Exchange:     "Binance",
	}
	rest := args[3:]
	if verb == "sell" {
		in.Type = cryptofolio.Sell
	} else if len(rest) > 0 {
		fee, err := strconv.ParseFloat(rest[0], 64)
		if err != nil {
			fmt.Printf("Invalid fee %q.\n", rest[0])
			return
		}
		in.Fee = cryptofolio.BRL(fee)
		rest = rest[1:]
	}
	if len(rest) > 0 {
		in.Exchange = strings.Join(rest, " ")
	}

	tx, err := session.SubmitTransaction(in)
	if err != nil {
		fmt.Println("Rejected:", err)
		return
	}
	fmt.Println(renderer.Transaction(tx))
}

func (c *liveCmd) watch(session *cryptofolio.Session, args []string) {
	if len(args) < 3 {
		fmt.Println("Usage: watch <coin> <above|below> <target>")
		return
	}
	coin, ok := resolveCoin(session.Snapshot().Registry, args[0])
	if !ok {
		fmt.Printf("Unknown coin %q.\n", args[0])
		return
	}
	condition, err := cryptofolio.ParseCondition(strings.ToUpper(args[1]))
	if err != nil {
		fmt.Println("Error:", err)
		return
	}
	target, err := strconv.ParseFloat(args[2], 64)
	if err != nil {
		fmt.Printf("Invalid target price %q.\n", args[2])
		return
	}

	entry, err := session.Watch(cryptofolio.WatchlistInput{
		CoinID:      coin.ID,
		TargetPrice: cryptofolio.BRL(target),
		Condition:   condition,
	})
	if err != nil {
		fmt.Println("Rejected:", err)
		return
	}
	fmt.Printf("Watching %s %s %s.\n", coin.Symbol, entry.Condition, entry.TargetPrice)
}

func (c *liveCmd) unwatch(session *cryptofolio.Session, args []string) {
	if len(args) != 1 {
		fmt.Println("Usage: unwatch <n>")
		return
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		fmt.Printf("Invalid entry number %q.\n", args[0])
		return
	}
	i := 1
	for entry := range session.Snapshot().Watchlist.Entries() {
		if i == n {
			if err := session.Unwatch(entry.ID); err != nil {
				fmt.Println("Error:", err)
			}
			return
		}
		i++
	}
	fmt.Printf("No watchlist entry #%d.\n", n)
}

// advise calls the advisory collaborator against the snapshot the user is
// looking at. It runs outside the tick path and never fails: an unreachable
// service yields the neutral fallback.
func (c *liveCmd) advise(ctx context.Context, session *cryptofolio.Session) {
	state := session.Snapshot()
	positions := cryptofolio.Valuate(state.Ledger, state.Registry)

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		log.Printf("advisor: client unavailable: %v", err)
		printMarkdown(renderer.Opinion(advisor.Fallback()))
		return
	}
	opinion := advisor.New(client).Analyze(ctx, positions, state.Registry)
	printMarkdown(renderer.Opinion(opinion))
}
