package cmd

import (
	"flag"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"github.com/etnz/tradebook/date"
)

// flagPredictors completes flag values whose domain is known.
var flagPredictors = map[string]complete.Predictor{
	"side":     predict.Set{"buy", "sell"},
	"period":   predict.Set(date.PeriodNames()),
	"format":   predict.Set{"csv", "md", "html"},
	"oversell": predict.Set{"drop", "report"},
	"sort":     predict.Set{"index", "date", "instrument", "side", "quantity", "price", "total", "note"},
	"set":      predict.Set{"quantity=", "price=", "total=", "pnl=", "avg_buy_price="},
	"f":        predict.Files("*.csv"),
	"o":        predict.Files("*"),
	"config":   predict.Dirs("*"),
	"book":     predict.Files("*"),
}

// Completion returns the shell completion of the commands registered in c,
// and of the global flags of top.
func Completion(c *subcommands.Commander, top *flag.FlagSet) *complete.Command {
	root := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: predictFlags(top),
	}
	c.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) {
		fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
		cmd.SetFlags(fs)
		root.Sub[cmd.Name()] = &complete.Command{Flags: predictFlags(fs)}
	})
	return root
}

func predictFlags(fs *flag.FlagSet) map[string]complete.Predictor {
	flags := make(map[string]complete.Predictor)
	fs.VisitAll(func(f *flag.Flag) {
		if p, ok := flagPredictors[f.Name]; ok {
			flags[f.Name] = p
			return
		}
		if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
			flags[f.Name] = predict.Nothing
			return
		}
		flags[f.Name] = predict.Something
	})
	return flags
}
