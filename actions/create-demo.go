package actions

import (
	"fmt"
	"io/ioutil"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/dwops/batchgate/artifact"
	"github.com/dwops/batchgate/batch"
	"github.com/dwops/batchgate/helper"
	"github.com/dwops/batchgate/logger"
)

// DemoConfig drives generation of a synthetic batch so the pipeline can be
// exercised without a real source endpoint or ETL tool.
type DemoConfig struct {
	LogLevel         string `errorTxt:"log level" mandatory:"yes"`
	StackDumpOnPanic bool
	RunDate          string
	DataDir          string
	Customers        int
	Products         int
	SalesRows        int
	Seed             int64
	// PopulateStage also copies the generated artifacts into stage/<run_date>/
	// so a demo reconciliation passes immediately.
	PopulateStage bool
}

var demoRegions = []string{"NA", "EU", "APAC", "LATAM"}
var demoCategories = []string{"Electronics", "Home", "Apparel", "Grocery", "Beauty", "Books"}

// RunCreateDemo writes the three demo artifacts into landing/<run_date>/.
func RunCreateDemo(cfg *DemoConfig) error {
	log := logger.NewLogger("batchgate", cfg.LogLevel, cfg.StackDumpOnPanic)
	if err := helper.ValidateStructIsPopulated(cfg); err != nil {
		return err
	}
	runDate, err := batch.ParseRunDate(cfg.RunDate)
	if err != nil {
		return err
	}
	if cfg.Customers <= 0 {
		cfg.Customers = 100
	}
	if cfg.Products <= 0 {
		cfg.Products = 50
	}
	if cfg.SalesRows <= 0 {
		cfg.SalesRows = 1000
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = 42 // deterministic demo data unless told otherwise.
	}
	rnd := rand.New(rand.NewSource(seed))
	layout := batch.NewLayout(cfg.DataDir)
	landingDir := layout.LandingDir(runDate)
	if err := os.MkdirAll(landingDir, 0755); err != nil {
		return fmt.Errorf("error creating landing directory %v: %v", landingDir, err)
	}
	unitCosts := make([]float64, cfg.Products)
	for i := range unitCosts {
		unitCosts[i] = 1.0 + rnd.Float64()*249.0
	}
	files := map[string]func(f *os.File) error{
		"customer_data.csv": func(f *os.File) error {
			if _, err := fmt.Fprintln(f, "customer_id,email,region,is_vip"); err != nil {
				return err
			}
			for i := 1; i <= cfg.Customers; i++ {
				vip := 0
				if rnd.Float64() < 0.1 {
					vip = 1
				}
				if _, err := fmt.Fprintf(f, "%v,user%v@example.com,%v,%v\n", i, i, demoRegions[rnd.Intn(len(demoRegions))], vip); err != nil {
					return err
				}
			}
			return nil
		},
		"product_dim.csv": func(f *os.File) error {
			if _, err := fmt.Fprintln(f, "product_id,category,unit_cost"); err != nil {
				return err
			}
			for i := 1; i <= cfg.Products; i++ {
				if _, err := fmt.Fprintf(f, "%v,%v,%.2f\n", i, demoCategories[rnd.Intn(len(demoCategories))], unitCosts[i-1]); err != nil {
					return err
				}
			}
			return nil
		},
		"sales_fact.csv": func(f *os.File) error {
			if _, err := fmt.Fprintln(f, "order_id,order_date,customer_id,product_id,quantity,sales_amount"); err != nil {
				return err
			}
			start := time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC)
			for i := 1; i <= cfg.SalesRows; i++ {
				d := start.AddDate(0, 0, rnd.Intn(365*4))
				qty := 1 + rnd.Intn(4)
				pid := 1 + rnd.Intn(cfg.Products)
				price := unitCosts[pid-1] * (1.2 + rnd.Float64()*0.6)
				amt := float64(qty) * price
				if _, err := fmt.Fprintf(f, "%v,%v,%v,%v,%v,%.2f\n",
					i, d.Format("2006-01-02"), 1+rnd.Intn(cfg.Customers), pid, qty, amt); err != nil {
					return err
				}
			}
			return nil
		},
	}
	// Deterministic artifact order for readable logs.
	for _, name := range []string{"customer_data.csv", "product_dim.csv", "sales_fact.csv"} {
		p := filepath.Join(landingDir, name)
		f, err := os.Create(p)
		if err != nil {
			return fmt.Errorf("error creating demo artifact %v: %v", p, err)
		}
		if err := files[name](f); err != nil {
			_ = f.Close()
			return fmt.Errorf("error writing demo artifact %v: %v", p, err)
		}
		if err := f.Close(); err != nil {
			return err
		}
		rows, err := artifact.DataRowCount(p)
		if err != nil {
			return err
		}
		log.Info(fmt.Sprintf("generated %v rows=%v", name, rows))
	}
	if cfg.PopulateStage { // copy landing into stage for a self-contained demo...
		stageDir := layout.StageDir(runDate)
		if err := os.MkdirAll(stageDir, 0755); err != nil {
			return fmt.Errorf("error creating stage directory %v: %v", stageDir, err)
		}
		names, err := artifact.ListDir(landingDir)
		if err != nil {
			return err
		}
		for _, name := range names {
			if err := copyFile(filepath.Join(landingDir, name), filepath.Join(stageDir, name)); err != nil {
				return err
			}
		}
		log.Info("copied ", len(names), " artifacts to ", stageDir)
	}
	log.Info("Demo batch ready under ", landingDir)
	return nil
}

func copyFile(src string, dst string) error {
	b, err := ioutil.ReadFile(src)
	if err != nil {
		return err
	}
	return ioutil.WriteFile(dst, b, 0644)
}
