package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/devoter-xyz/devoter-contracts-sub000/lib/common"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/escrow"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/fee"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/storage"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/token"
	"github.com/devoter-xyz/devoter-contracts-sub000/lib/voting"

	cmdcommon "github.com/devoter-xyz/devoter-contracts-sub000/cmd/devoter/common"
)

// The ledger command group operates directly on the local storage; it is the
// operator's surface for everything that mutates state.

var (
	flagCaller           string = common.GetENVValue("DEVOTER_CALLER", "")
	flagCustodianAddress string = common.GetENVValue("DEVOTER_CUSTODIAN", "")
	flagFeeSinkAddress   string = common.GetENVValue("DEVOTER_FEE_SINK", "")
	flagFeeRate          uint64 = common.MaxFeeRateBasisPoints
	flagFeeExempt        cmdcommon.ListFlags
	flagLockDuration     time.Duration
	flagFormat           string = "prettyjson"
)

var ledgerCmd *cobra.Command

type ledgerContext struct {
	st     *storage.LevelDBBackend
	ledger *escrow.Ledger
	period *voting.Period
	tok    *token.Custodian
	fees   *fee.Policy
}

func init() {
	ledgerCmd = &cobra.Command{
		Use:   "ledger",
		Short: "Operate on the escrow ledger in local storage",
		Run: func(c *cobra.Command, args []string) {
			if len(args) < 1 {
				c.Usage()
			}
		},
	}

	ledgerCmd.PersistentFlags().StringVar(&flagStorageConfigString, "storage", flagStorageConfigString, "storage uri")
	ledgerCmd.PersistentFlags().StringVar(&flagNetworkID, "network-id", flagNetworkID, "network id")
	ledgerCmd.PersistentFlags().StringVar(&flagCaller, "caller", flagCaller, "address performing the operation")
	ledgerCmd.PersistentFlags().StringVar(&flagCustodianAddress, "custodian", flagCustodianAddress, "custody account address")
	ledgerCmd.PersistentFlags().StringVar(&flagFeeSinkAddress, "fee-sink", flagFeeSinkAddress, "fee sink account address")
	ledgerCmd.PersistentFlags().Uint64Var(&flagFeeRate, "fee-rate", flagFeeRate, "deposit fee rate in basis points")
	ledgerCmd.PersistentFlags().Var(&flagFeeExempt, "fee-exempt", "address exempt from the deposit fee, repeatable")
	ledgerCmd.PersistentFlags().DurationVar(&flagLockDuration, "lock-duration", 90*24*time.Hour, "escrow lock duration")
	ledgerCmd.PersistentFlags().StringVar(&flagFormat, "format", flagFormat, "output format, {json, prettyjson, yaml}")

	ledgerCmd.AddCommand(makeGenesisCmd())
	ledgerCmd.AddCommand(makeDepositCmd())
	ledgerCmd.AddCommand(makeReleaseCmd())
	ledgerCmd.AddCommand(makePauseCmd())
	ledgerCmd.AddCommand(makePeriodCmd())
	ledgerCmd.AddCommand(makeStatusCmd())

	rootCmd.AddCommand(ledgerCmd)
}

func outputEncoder(c *cobra.Command) cmdcommon.Encode {
	encode, found := cmdcommon.DefaultEncodes[flagFormat]
	if !found {
		cmdcommon.PrintFlagsError(c, "--format", fmt.Errorf("unknown format '%s'", flagFormat))
	}
	return encode
}

func openLedger(c *cobra.Command) *ledgerContext {
	if len(flagCustodianAddress) < 1 {
		cmdcommon.PrintFlagsError(c, "--custodian", fmt.Errorf("must be given"))
	}
	if len(flagFeeSinkAddress) < 1 {
		cmdcommon.PrintFlagsError(c, "--fee-sink", fmt.Errorf("must be given"))
	}
	if flagFeeRate > common.MaxFeeRateBasisPoints {
		cmdcommon.PrintFlagsError(c, "--fee-rate", fmt.Errorf("must not exceed %d", common.MaxFeeRateBasisPoints))
	}

	storageConfig, err := storage.NewConfigFromString(flagStorageConfigString)
	if err != nil {
		cmdcommon.PrintFlagsError(c, "--storage", err)
	}

	st, err := storage.NewStorage(storageConfig)
	if err != nil {
		cmdcommon.PrintError(c, err)
	}

	conf := common.NewConfig([]byte(flagNetworkID))
	conf.FeeRateBasisPoints = flagFeeRate
	conf.VotingLockDuration = flagLockDuration
	conf.CustodianAddress = flagCustodianAddress
	conf.FeeSinkAddress = flagFeeSinkAddress

	// the local operator holds every role
	auth := common.NewRoleAuthorizer()
	for _, role := range []common.Role{common.RoleAdmin, common.RoleEmergency, common.RoleOwner, common.RoleVoteLedger} {
		auth.Grant(flagCaller, role)
	}

	clock := common.LocalClock{}
	custodian := token.NewCustodian(conf.CustodianAddress)
	fees := fee.NewPolicy(conf, auth)
	for _, address := range flagFeeExempt {
		if err := fees.SetExemption(flagCaller, address, true); err != nil {
			cmdcommon.PrintFlagsError(c, "--fee-exempt", err)
		}
	}

	return &ledgerContext{
		st:     st,
		ledger: escrow.NewLedger(conf, custodian, fees, auth, clock),
		period: voting.NewPeriod(clock, auth),
		tok:    custodian,
		fees:   fees,
	}
}

func makeGenesisCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "genesis <address> <amount>",
		Short: "Credit an address with native tokens",
		Args:  cobra.ExactArgs(2),
		Run: func(c *cobra.Command, args []string) {
			lc := openLedger(c)
			defer lc.st.Close()

			amount, err := cmdcommon.ParseAmountFromString(args[1])
			if err != nil {
				cmdcommon.PrintFlagsError(c, "<amount>", err)
			}

			if err := lc.tok.Mint(lc.st, token.NativeToken, args[0], amount); err != nil {
				cmdcommon.PrintError(c, err)
			}

			fmt.Fprintf(os.Stdout, "credited %s with %s\n", args[0], amount)
		},
	}
}

func makeDepositCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deposit <address> <amount>",
		Short: "Lock tokens into escrow for an address",
		Args:  cobra.ExactArgs(2),
		Run: func(c *cobra.Command, args []string) {
			lc := openLedger(c)
			defer lc.st.Close()

			amount, err := cmdcommon.ParseAmountFromString(args[1])
			if err != nil {
				cmdcommon.PrintFlagsError(c, "<amount>", err)
			}

			record, err := lc.ledger.Deposit(lc.st, args[0], amount)
			if err != nil {
				cmdcommon.PrintError(c, err)
			}

			outputEncoder(c)(record, os.Stdout)
		},
	}
}

func makeReleaseCmd() *cobra.Command {
	var force bool

	c := &cobra.Command{
		Use:   "release <address>",
		Short: "Release an escrow back to its address",
		Args:  cobra.ExactArgs(1),
		Run: func(c *cobra.Command, args []string) {
			lc := openLedger(c)
			defer lc.st.Close()

			var released common.Amount
			var err error
			if force {
				released, err = lc.ledger.ForceRelease(lc.st, flagCaller, args[0])
			} else {
				released, err = lc.ledger.Release(lc.st, args[0])
			}
			if err != nil {
				cmdcommon.PrintError(c, err)
			}

			fmt.Fprintf(os.Stdout, "released %s to %s\n", released, args[0])
		},
	}
	c.Flags().BoolVar(&force, "force", false, "release regardless of the release time")

	return c
}

func makePauseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pause {on|off}",
		Short: "Pause or unpause the ledger",
		Args:  cobra.ExactArgs(1),
		Run: func(c *cobra.Command, args []string) {
			lc := openLedger(c)
			defer lc.st.Close()

			var err error
			switch args[0] {
			case "on":
				err = lc.ledger.Pause(lc.st, flagCaller)
			case "off":
				err = lc.ledger.Unpause(lc.st, flagCaller)
			default:
				cmdcommon.PrintFlagsError(c, "pause", fmt.Errorf("expects 'on' or 'off'"))
			}
			if err != nil {
				cmdcommon.PrintError(c, err)
			}
		},
	}
}

func makePeriodCmd() *cobra.Command {
	var duration time.Duration

	c := &cobra.Command{
		Use:   "period {start|end}",
		Short: "Open or close the voting period",
		Args:  cobra.ExactArgs(1),
		Run: func(c *cobra.Command, args []string) {
			lc := openLedger(c)
			defer lc.st.Close()

			var w *voting.Window
			var err error
			switch args[0] {
			case "start":
				w, err = lc.period.Start(lc.st, flagCaller, duration)
			case "end":
				w, err = lc.period.End(lc.st, flagCaller)
			default:
				cmdcommon.PrintFlagsError(c, "period", fmt.Errorf("expects 'start' or 'end'"))
			}
			if err != nil {
				cmdcommon.PrintError(c, err)
			}

			outputEncoder(c)(w, os.Stdout)
		},
	}
	c.Flags().DurationVar(&duration, "duration", 7*24*time.Hour, "length of the voting period")

	return c
}

func makeStatusCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "status [address]",
		Short: "Print the voting period and, optionally, an escrow record",
		Args:  cobra.MaximumNArgs(1),
		Run: func(c *cobra.Command, args []string) {
			lc := openLedger(c)
			defer lc.st.Close()

			encode := outputEncoder(c)

			w, err := voting.GetWindow(lc.st)
			if err != nil {
				cmdcommon.PrintError(c, err)
			}
			encode(w, os.Stdout)

			if len(args) == 1 {
				record, err := escrow.GetRecord(lc.st, args[0])
				if err != nil {
					cmdcommon.PrintError(c, err)
				}
				encode(record, os.Stdout)
			}
		},
	}

	return c
}
