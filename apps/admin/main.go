package main

import (
	"log"
	"os"

	"github.com/trezcool/academia/core"
	"github.com/trezcool/academia/core/course"
	"github.com/trezcool/academia/core/enquiry"
	"github.com/trezcool/academia/core/enrollment"
	"github.com/trezcool/academia/core/progress"
	"github.com/trezcool/academia/core/user"
	appfs "github.com/trezcool/academia/fs"
	emailsvc "github.com/trezcool/academia/services/email"
	logsvc "github.com/trezcool/academia/services/logger"
	"github.com/trezcool/academia/storage/database"
	boiledrepos "github.com/trezcool/academia/storage/database/sqlboiler"
)

func main() {
	conf := core.NewConfig()
	logger := logsvc.NewRollbarLogger(log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile), conf)

	// set up DB
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal("opening database", err)
	}

	// set up services
	var mailSvc core.EmailService
	if conf.Debug {
		mailSvc = emailsvc.NewConsoleService(conf, logger)
	} else {
		mailSvc = emailsvc.NewSendgridService(conf, logger)
	}
	core.ParseEmailTemplates(appfs.FS, conf, logger)

	engine := conf.Database.Engine
	usrSvc := user.NewService(boiledrepos.NewUserRepository(db, engine), mailSvc, conf)
	courseSvc := course.NewService(boiledrepos.NewCourseRepository(db, engine))
	progressSvc := progress.NewService(boiledrepos.NewProgressRepository(db, engine))
	enrollmentSvc := enrollment.NewService(boiledrepos.NewEnrollmentRepository(db, engine), courseSvc, progressSvc)

	// start CLI
	cli := commandLine{
		db:         db,
		engine:     engine,
		usrSvc:     usrSvc,
		enquirySvc: enquiry.NewService(boiledrepos.NewEnquiryRepository(db, engine), usrSvc, courseSvc, enrollmentSvc),
		out:        os.Stdout,
	}
	err = cli.run(os.Args)
	_ = db.Close()
	logger.Close()

	if err != nil {
		if err != errHelp {
			logger.Error("admin: "+err.Error(), err)
		}
		os.Exit(1)
	}
}
